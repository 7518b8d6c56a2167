package repository

import (
	"context"

	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListThread(ctx context.Context, uid, otherUID string) ([]model.Message, error)
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListThread(ctx context.Context, uid, otherUID string) ([]model.Message, error) {
	var list []model.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_uid = ? AND receiver_uid = ?) OR (sender_uid = ? AND receiver_uid = ?)",
			uid, otherUID, otherUID, uid).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}
