package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solidon/donation-backend/internal/model"
	"github.com/solidon/donation-backend/internal/repository"
	"gorm.io/gorm"
)

type SubmitDemandeInput struct {
	CategoryID           *uint64
	MaterialType         string
	Description          string
	Quantity             int
	Urgency              model.Urgency
	DeliveryAddress      string
	City                 string
	PostalCode           string
	DeliveryAvailability string
}

type DemandeService interface {
	Submit(ctx context.Context, requester *model.User, in SubmitDemandeInput) (*model.Demande, error)
	Get(ctx context.Context, actor *model.User, id uint64) (*model.Demande, error)
	ListByRequester(ctx context.Context, requester *model.User) ([]model.Demande, error)
	ListPending(ctx context.Context, member *model.User) ([]model.Demande, error)
	ListMissions(ctx context.Context, transporter *model.User) ([]model.Demande, error)
	Validate(ctx context.Context, member *model.User, id uint64, approve bool, reason string) (*model.Demande, error)
	AssignTransporter(ctx context.Context, member *model.User, id uint64, transporterUID string) (*model.Demande, error)
	TransporterRespond(ctx context.Context, transporter *model.User, id uint64, accept bool, reason string) (*model.Demande, error)
	StartDelivery(ctx context.Context, transporter *model.User, id uint64) (*model.Demande, error)
	CompleteDelivery(ctx context.Context, transporter *model.User, id uint64) (*model.Demande, error)
	AttributeDon(ctx context.Context, member *model.User, id, donID uint64) (*model.Demande, error)
	ConfirmReception(ctx context.Context, requester *model.User, id uint64) (*model.Demande, error)
}

type demandeService struct {
	repo     repository.DemandeRepository
	donRepo  repository.DonRepository
	userRepo repository.UserRepository
	notify   NotificationService
}

func NewDemandeService(repo repository.DemandeRepository, donRepo repository.DonRepository, userRepo repository.UserRepository, notify NotificationService) DemandeService {
	return &demandeService{repo: repo, donRepo: donRepo, userRepo: userRepo, notify: notify}
}

func (s *demandeService) Submit(ctx context.Context, requester *model.User, in SubmitDemandeInput) (*model.Demande, error) {
	if requester == nil || requester.Role != model.RoleParticipant {
		return nil, ErrForbidden
	}
	in.MaterialType = strings.TrimSpace(in.MaterialType)
	in.Description = strings.TrimSpace(in.Description)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)

	required := []struct {
		field, value string
	}{
		{"materialType", in.MaterialType},
		{"description", in.Description},
		{"deliveryAddress", in.DeliveryAddress},
		{"city", in.City},
		{"postalCode", in.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, f.field)
		}
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	switch in.Urgency {
	case "":
		in.Urgency = model.UrgencyMedium
	case model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh, model.UrgencyUrgent:
	default:
		return nil, fmt.Errorf("%w: unknown urgency %q", ErrValidation, in.Urgency)
	}

	d := &model.Demande{
		RequesterUID:         requester.UID,
		CategoryID:           in.CategoryID,
		MaterialType:         in.MaterialType,
		Description:          in.Description,
		Quantity:             in.Quantity,
		Urgency:              in.Urgency,
		DeliveryAddress:      in.DeliveryAddress,
		City:                 in.City,
		PostalCode:           in.PostalCode,
		DeliveryAvailability: in.DeliveryAvailability,
		Status:               model.DemandeStatusPending,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *demandeService) Get(ctx context.Context, actor *model.User, id uint64) (*model.Demande, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == model.RoleParticipant && d.RequesterUID != actor.UID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *demandeService) ListByRequester(ctx context.Context, requester *model.User) ([]model.Demande, error) {
	if requester == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListByRequester(ctx, requester.UID)
}

func (s *demandeService) ListPending(ctx context.Context, member *model.User) ([]model.Demande, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	return s.repo.ListByStatus(ctx, model.DemandeStatusPending)
}

func (s *demandeService) ListMissions(ctx context.Context, transporter *model.User) ([]model.Demande, error) {
	if transporter == nil || transporter.Role != model.RoleTransporter {
		return nil, ErrForbidden
	}
	return s.repo.ListByTransporter(ctx, transporter.UID)
}

func (s *demandeService) Validate(ctx context.Context, member *model.User, id uint64, approve bool, reason string) (*model.Demande, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if approve {
		if !d.Status.CanTransitionTo(model.DemandeStatusValidated) {
			return nil, fmt.Errorf("%w: cannot validate demande in status %s", ErrPrecondition, d.Status)
		}
		d.Status = model.DemandeStatusValidated
	} else {
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: refusal reason is required", ErrValidation)
		}
		if !d.Status.CanTransitionTo(model.DemandeStatusRefused) {
			return nil, fmt.Errorf("%w: cannot refuse demande in status %s", ErrPrecondition, d.Status)
		}
		d.Status = model.DemandeStatusRefused
		d.RefusalReason = reason
	}
	d.ValidatorUID = &member.UID
	d.ValidatedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *demandeService) AssignTransporter(ctx context.Context, member *model.User, id uint64, transporterUID string) (*model.Demande, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DemandeStatusValidated {
		return nil, fmt.Errorf("%w: demande must be validated before assignment", ErrPrecondition)
	}
	transporter, err := s.userRepo.FindByUID(ctx, transporterUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if transporter.Role != model.RoleTransporter {
		return nil, fmt.Errorf("%w: user %s is not a transporter", ErrValidation, transporterUID)
	}
	d.TransporterUID = &transporter.UID
	d.TransporterConfirmed = false
	d.TransporterRefusalNote = ""
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, transporter.UID, "mission_assigned",
		fmt.Sprintf("Nouvelle mission: demande #%d", d.ID),
		"Vous avez été assigné pour transporter ce don. Veuillez accepter ou refuser la mission.",
		model.DemandeSubject(d.ID))
	return d, nil
}

// TransporterRespond records the assigned transporter's answer. Acceptance
// moves the demande to in_progress; refusal clears the assignment and
// reverts the status to validated so another transporter can be assigned.
func (s *demandeService) TransporterRespond(ctx context.Context, transporter *model.User, id uint64, accept bool, reason string) (*model.Demande, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if transporter == nil || d.TransporterUID == nil || *d.TransporterUID != transporter.UID {
		return nil, ErrForbidden
	}
	now := time.Now()
	if accept {
		if !d.Status.CanTransitionTo(model.DemandeStatusInProgress) {
			return nil, fmt.Errorf("%w: cannot accept demande in status %s", ErrPrecondition, d.Status)
		}
		d.Status = model.DemandeStatusInProgress
		d.TransporterConfirmed = true
	} else {
		if d.Status != model.DemandeStatusValidated && d.Status != model.DemandeStatusInProgress {
			return nil, fmt.Errorf("%w: cannot refuse mission for demande in status %s", ErrPrecondition, d.Status)
		}
		d.Status = model.DemandeStatusValidated
		d.TransporterConfirmed = false
		d.TransporterRefusalNote = reason
		d.TransporterUID = nil
	}
	d.TransporterRespondedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	if !accept && d.ValidatorUID != nil {
		s.notify.Notify(ctx, *d.ValidatorUID, "mission_refused",
			fmt.Sprintf("Mission refusée: demande #%d", d.ID),
			"Le transporteur a refusé la mission. Veuillez assigner un autre transporteur.",
			model.DemandeSubject(d.ID))
	}
	return d, nil
}

func (s *demandeService) StartDelivery(ctx context.Context, transporter *model.User, id uint64) (*model.Demande, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if transporter == nil || d.TransporterUID == nil || *d.TransporterUID != transporter.UID {
		return nil, ErrForbidden
	}
	if !d.Status.CanTransitionTo(model.DemandeStatusInDelivery) {
		return nil, fmt.Errorf("%w: cannot start delivery in status %s", ErrPrecondition, d.Status)
	}
	d.Status = model.DemandeStatusInDelivery
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *demandeService) CompleteDelivery(ctx context.Context, transporter *model.User, id uint64) (*model.Demande, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if transporter == nil || d.TransporterUID == nil || *d.TransporterUID != transporter.UID {
		return nil, ErrForbidden
	}
	if d.Status == model.DemandeStatusCompleted {
		return d, nil
	}
	if !d.Status.CanTransitionTo(model.DemandeStatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete demande in status %s", ErrPrecondition, d.Status)
	}
	now := time.Now()
	d.Status = model.DemandeStatusCompleted
	d.DeliveredAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// AttributeDon links a stocked don to the demande. It does not change the
// demande status; a don may satisfy at most one live demande at a time.
func (s *demandeService) AttributeDon(ctx context.Context, member *model.User, id, donID uint64) (*model.Demande, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	don, err := s.donRepo.FindByID(ctx, donID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if other, err := s.repo.FindLiveByDon(ctx, donID); err == nil && other != nil && other.ID != d.ID {
		return nil, fmt.Errorf("%w: don %s is already attributed to demande #%d", ErrConflict, don.Reference, other.ID)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	now := time.Now()
	d.DonID = &don.ID
	d.AttributedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ConfirmReception is idempotent: confirming twice is reported with
// ErrAlreadyConfirmed and leaves the record unchanged.
func (s *demandeService) ConfirmReception(ctx context.Context, requester *model.User, id uint64) (*model.Demande, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil || d.RequesterUID != requester.UID {
		return nil, ErrForbidden
	}
	if d.Status != model.DemandeStatusCompleted {
		return nil, fmt.Errorf("%w: demande is not completed yet", ErrPrecondition)
	}
	if d.ReceptionConfirmed {
		return d, ErrAlreadyConfirmed
	}
	d.ReceptionConfirmed = true
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *demandeService) find(ctx context.Context, id uint64) (*model.Demande, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}
