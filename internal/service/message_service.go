package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
	"gorm.io/gorm"
)

type MessageService interface {
	Send(ctx context.Context, sender *model.User, receiverUID, body string) (*model.Message, error)
	Thread(ctx context.Context, actor *model.User, otherUID string) ([]model.Message, error)
}

type messageService struct {
	repo     repository.MessageRepository
	userRepo repository.UserRepository
	notifier NotificationService
}

func NewMessageService(repo repository.MessageRepository, userRepo repository.UserRepository, notifier NotificationService) MessageService {
	return &messageService{repo: repo, userRepo: userRepo, notifier: notifier}
}

func (s *messageService) Send(ctx context.Context, sender *model.User, receiverUID, body string) (*model.Message, error) {
	if sender == nil {
		return nil, ErrForbidden
	}
	if receiverUID == "" {
		return nil, fmt.Errorf("%w: receiverUid is required", ErrValidation)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	if receiverUID == sender.UID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}
	if _, err := s.userRepo.FindByUID(ctx, receiverUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	msg := &model.Message{
		SenderUID:   sender.UID,
		ReceiverUID: receiverUID,
		Body:        body,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, receiverUID, "new_message",
		"Nouveau message",
		fmt.Sprintf("%s vous a envoyé un message.", sender.Name),
		model.NoSubject())
	return msg, nil
}

func (s *messageService) Thread(ctx context.Context, actor *model.User, otherUID string) ([]model.Message, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if otherUID == "" {
		return nil, fmt.Errorf("%w: peer uid is required", ErrValidation)
	}
	return s.repo.ListThread(ctx, actor.UID, otherUID)
}
