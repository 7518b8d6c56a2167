package repository

import (
	"context"
	"errors"

	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type PropositionRepository interface {
	Create(ctx context.Context, p *model.Proposition) error
	FindByID(ctx context.Context, id uint64) (*model.Proposition, error)
	Update(ctx context.Context, p *model.Proposition) error
	ListByDonor(ctx context.Context, donorUID string) ([]model.Proposition, error)
	ListByStatus(ctx context.Context, status model.PropositionStatus) ([]model.Proposition, error)
	ListByTransporter(ctx context.Context, transporterUID string) ([]model.Proposition, error)
	SetDB(db *gorm.DB)
}

type propositionRepository struct {
	db *gorm.DB
}

func NewPropositionRepository(db *gorm.DB) PropositionRepository {
	return &propositionRepository{db: db}
}

func (r *propositionRepository) Create(ctx context.Context, p *model.Proposition) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *propositionRepository) FindByID(ctx context.Context, id uint64) (*model.Proposition, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Proposition
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propositionRepository) Update(ctx context.Context, p *model.Proposition) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *propositionRepository) ListByDonor(ctx context.Context, donorUID string) ([]model.Proposition, error) {
	var list []model.Proposition
	if err := r.db.WithContext(ctx).
		Where("donor_uid = ?", donorUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propositionRepository) ListByStatus(ctx context.Context, status model.PropositionStatus) ([]model.Proposition, error) {
	var list []model.Proposition
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propositionRepository) ListByTransporter(ctx context.Context, transporterUID string) ([]model.Proposition, error) {
	var list []model.Proposition
	if err := r.db.WithContext(ctx).
		Where("transporter_uid = ?", transporterUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *propositionRepository) SetDB(db *gorm.DB) {
	r.db = db
}
