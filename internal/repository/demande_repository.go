package repository

import (
	"context"

	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

type DemandeRepository interface {
	Create(ctx context.Context, d *model.Demande) error
	FindByID(ctx context.Context, id uint64) (*model.Demande, error)
	Update(ctx context.Context, d *model.Demande) error
	ListByRequester(ctx context.Context, requesterUID string) ([]model.Demande, error)
	ListByStatus(ctx context.Context, status model.DemandeStatus) ([]model.Demande, error)
	ListByTransporter(ctx context.Context, transporterUID string) ([]model.Demande, error)
	FindLiveByDon(ctx context.Context, donID uint64) (*model.Demande, error)
	FindConfirmedByDon(ctx context.Context, donID uint64) (*model.Demande, error)
	SetDB(db *gorm.DB)
}

type demandeRepository struct {
	db *gorm.DB
}

func NewDemandeRepository(db *gorm.DB) DemandeRepository {
	return &demandeRepository{db: db}
}

func (r *demandeRepository) Create(ctx context.Context, d *model.Demande) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *demandeRepository) FindByID(ctx context.Context, id uint64) (*model.Demande, error) {
	var d model.Demande
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *demandeRepository) Update(ctx context.Context, d *model.Demande) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *demandeRepository) ListByRequester(ctx context.Context, requesterUID string) ([]model.Demande, error) {
	var list []model.Demande
	if err := r.db.WithContext(ctx).
		Where("requester_uid = ?", requesterUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByStatus orders most urgent first so members treat pressing demandes
// before the rest.
func (r *demandeRepository) ListByStatus(ctx context.Context, status model.DemandeStatus) ([]model.Demande, error) {
	var list []model.Demande
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("CASE urgency WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *demandeRepository) ListByTransporter(ctx context.Context, transporterUID string) ([]model.Demande, error) {
	var list []model.Demande
	if err := r.db.WithContext(ctx).
		Where("transporter_uid = ?", transporterUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindLiveByDon returns a demande currently holding an attribution of the
// given don, refused and cancelled ones excluded.
func (r *demandeRepository) FindLiveByDon(ctx context.Context, donID uint64) (*model.Demande, error) {
	var d model.Demande
	if err := r.db.WithContext(ctx).
		Where("don_id = ? AND status NOT IN ?", donID,
			[]model.DemandeStatus{model.DemandeStatusRefused, model.DemandeStatusCancelled}).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *demandeRepository) FindConfirmedByDon(ctx context.Context, donID uint64) (*model.Demande, error) {
	var d model.Demande
	if err := r.db.WithContext(ctx).
		Where("don_id = ? AND reception_confirmed = ?", donID, true).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *demandeRepository) SetDB(db *gorm.DB) {
	r.db = db
}
