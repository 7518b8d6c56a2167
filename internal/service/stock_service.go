package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
	"gorm.io/gorm"
)

const defaultStorageLocation = "Entrepôt principal"

type StockService interface {
	ConvertToStock(ctx context.Context, member *model.User, propositionID uint64) (*model.Don, error)
	ReleaseFromStock(ctx context.Context, member *model.User, donID uint64) (*model.Don, error)
	FindRelatedStock(ctx context.Context, member *model.User, demandeID uint64) ([]model.Don, error)
	List(ctx context.Context, member *model.User) ([]model.Don, error)
}

type stockService struct {
	donRepo     repository.DonRepository
	propRepo    repository.PropositionRepository
	demandeRepo repository.DemandeRepository
}

func NewStockService(donRepo repository.DonRepository, propRepo repository.PropositionRepository, demandeRepo repository.DemandeRepository) StockService {
	return &stockService{donRepo: donRepo, propRepo: propRepo, demandeRepo: demandeRepo}
}

// ConvertToStock turns a handed-off proposition into inventory. Exactly one
// don may exist per proposition; a second call reports ErrConflict.
func (s *stockService) ConvertToStock(ctx context.Context, member *model.User, propositionID uint64) (*model.Don, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	p, err := s.propRepo.FindByID(ctx, propositionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.DonorConfirmedHandoff {
		return nil, fmt.Errorf("%w: donor has not confirmed the handoff", ErrPrecondition)
	}
	if existing, err := s.donRepo.FindByProposition(ctx, propositionID); err == nil && existing != nil {
		return existing, fmt.Errorf("%w: proposition #%d is already in stock as %s", ErrConflict, propositionID, existing.Reference)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	don := &model.Don{
		PropositionID:   p.ID,
		CategoryID:      p.CategoryID,
		MaterialType:    p.MaterialType,
		Quantity:        p.Quantity,
		Description:     p.Description,
		Condition:       p.Condition,
		PhotoURL:        p.PhotoURL,
		Status:          model.DonStatusInStock,
		StorageLocation: defaultStorageLocation,
	}
	if err := s.donRepo.CreateFromProposition(ctx, don); err != nil {
		return nil, err
	}
	return don, nil
}

// ReleaseFromStock marks a don as given once the attributed demande's
// recipient has confirmed reception.
func (s *stockService) ReleaseFromStock(ctx context.Context, member *model.User, donID uint64) (*model.Don, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	don, err := s.donRepo.FindByID(ctx, donID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.demandeRepo.FindConfirmedByDon(ctx, donID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient has not confirmed reception", ErrConflict)
		}
		return nil, err
	}
	now := time.Now()
	don.Status = model.DonStatusGiven
	don.GivenAt = &now
	if err := s.donRepo.Update(ctx, don); err != nil {
		return nil, err
	}
	return don, nil
}

// FindRelatedStock lists dons matching the demande's desired category, in
// natural store order. No ranking or reservation is applied.
func (s *stockService) FindRelatedStock(ctx context.Context, member *model.User, demandeID uint64) ([]model.Don, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	d, err := s.demandeRepo.FindByID(ctx, demandeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if d.CategoryID == nil {
		return []model.Don{}, nil
	}
	return s.donRepo.ListByCategory(ctx, *d.CategoryID)
}

func (s *stockService) List(ctx context.Context, member *model.User) ([]model.Don, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	return s.donRepo.List(ctx)
}
