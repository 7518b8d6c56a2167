package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

type DonRepository interface {
	CreateFromProposition(ctx context.Context, don *model.Don) error
	FindByID(ctx context.Context, id uint64) (*model.Don, error)
	FindByProposition(ctx context.Context, propositionID uint64) (*model.Don, error)
	Update(ctx context.Context, don *model.Don) error
	List(ctx context.Context) ([]model.Don, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]model.Don, error)
	SetDB(db *gorm.DB)
}

type donRepository struct {
	db *gorm.DB
}

func NewDonRepository(db *gorm.DB) DonRepository {
	return &donRepository{db: db}
}

// CreateFromProposition inserts the don and assigns its reference inside one
// transaction. The identity comes from the insert, the reference update
// commits with it, so no row is ever visible without a well-formed reference.
func (r *donRepository) CreateFromProposition(ctx context.Context, don *model.Don) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(don).Error; err != nil {
			return err
		}
		don.Reference = fmt.Sprintf("DON-%d-%06d", time.Now().Year(), don.ID)
		return tx.Model(don).Update("reference", don.Reference).Error
	})
}

func (r *donRepository) FindByID(ctx context.Context, id uint64) (*model.Don, error) {
	var don model.Don
	if err := r.db.WithContext(ctx).First(&don, id).Error; err != nil {
		return nil, err
	}
	return &don, nil
}

func (r *donRepository) FindByProposition(ctx context.Context, propositionID uint64) (*model.Don, error) {
	var don model.Don
	if err := r.db.WithContext(ctx).
		Where("proposition_id = ?", propositionID).
		First(&don).Error; err != nil {
		return nil, err
	}
	return &don, nil
}

func (r *donRepository) Update(ctx context.Context, don *model.Don) error {
	return r.db.WithContext(ctx).Save(don).Error
}

func (r *donRepository) List(ctx context.Context) ([]model.Don, error) {
	var list []model.Don
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *donRepository) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Don, error) {
	var list []model.Don
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *donRepository) SetDB(db *gorm.DB) {
	r.db = db
}
