package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
	"gorm.io/gorm"
)

type RegisterUserInput struct {
	Name    string
	Role    model.Role
	Phone   string
	Address string
	Vehicle string
}

type UserService interface {
	Register(ctx context.Context, uid string, in RegisterUserInput) (*model.User, error)
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	ListAvailableTransporters(ctx context.Context) ([]model.User, error)
	SetAvailability(ctx context.Context, actor *model.User, available bool) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, uid string, in RegisterUserInput) (*model.User, error) {
	if uid == "" {
		return nil, ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = model.RoleParticipant
	}
	switch role {
	case model.RoleParticipant, model.RoleMember, model.RoleTransporter:
	case model.RoleAdmin:
		// Admin accounts come from seeding, not self-registration.
		return nil, ErrForbidden
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if existing, err := s.repo.FindByUID(ctx, uid); err == nil {
		return existing, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u := &model.User{
		UID:       uid,
		Name:      in.Name,
		Role:      role,
		Phone:     in.Phone,
		Address:   in.Address,
		Vehicle:   in.Vehicle,
		Available: role == model.RoleTransporter,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	u, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) ListAvailableTransporters(ctx context.Context) ([]model.User, error) {
	return s.repo.ListAvailableTransporters(ctx)
}

func (s *userService) SetAvailability(ctx context.Context, actor *model.User, available bool) (*model.User, error) {
	if actor == nil || actor.Role != model.RoleTransporter {
		return nil, ErrForbidden
	}
	actor.Available = available
	if err := s.repo.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}
