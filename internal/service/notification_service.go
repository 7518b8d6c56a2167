package service

import (
	"context"

	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, receiverUID, typ, title, body string, subject model.NotificationSubject)
	List(ctx context.Context, receiverUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, receiverUID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; a failed write never fails the triggering transition.
func (s *notificationService) Notify(ctx context.Context, receiverUID, typ, title, body string, subject model.NotificationSubject) {
	if receiverUID == "" || typ == "" {
		return
	}
	n := &model.Notification{
		ReceiverUID: receiverUID,
		Type:        typ,
		Title:       title,
		Body:        body,
	}
	subject.Apply(n)
	_ = s.repo.Create(ctx, n)
}

func (s *notificationService) List(ctx context.Context, receiverUID string, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	if receiverUID == "" {
		return nil, 0, nil
	}
	list, err := s.repo.ListByReceiver(ctx, receiverUID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, receiverUID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, receiverUID string) error {
	if receiverUID == "" {
		return nil
	}
	return s.repo.MarkAllRead(ctx, receiverUID)
}
