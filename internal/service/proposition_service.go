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

type SubmitPropositionInput struct {
	CategoryID         *uint64
	MaterialType       string
	Quantity           int
	Description        string
	Condition          model.ItemCondition
	PickupAddress      string
	City               string
	PostalCode         string
	PickupAvailability string
}

type PropositionService interface {
	Submit(ctx context.Context, donor *model.User, in SubmitPropositionInput) (*model.Proposition, error)
	Get(ctx context.Context, actor *model.User, id uint64) (*model.Proposition, error)
	ListByDonor(ctx context.Context, donor *model.User) ([]model.Proposition, error)
	ListPending(ctx context.Context, member *model.User) ([]model.Proposition, error)
	ListMissions(ctx context.Context, transporter *model.User) ([]model.Proposition, error)
	Validate(ctx context.Context, member *model.User, id uint64, approve bool, reason string) (*model.Proposition, error)
	AssignTransporter(ctx context.Context, member *model.User, id uint64, transporterUID string) (*model.Proposition, error)
	TransporterRespond(ctx context.Context, transporter *model.User, id uint64, accept bool, reason string) (*model.Proposition, error)
	ConfirmHandoff(ctx context.Context, donor *model.User, id uint64) (*model.Proposition, error)
	ConfirmReceipt(ctx context.Context, transporter *model.User, id uint64) (*model.Proposition, error)
	Complete(ctx context.Context, actor *model.User, id uint64) (*model.Proposition, error)
	Cancel(ctx context.Context, donor *model.User, id uint64) (*model.Proposition, error)
	SetPhotoURL(ctx context.Context, donor *model.User, id uint64, url string) (*model.Proposition, error)
}

type propositionService struct {
	repo     repository.PropositionRepository
	userRepo repository.UserRepository
	notify   NotificationService
}

func NewPropositionService(repo repository.PropositionRepository, userRepo repository.UserRepository, notify NotificationService) PropositionService {
	return &propositionService{repo: repo, userRepo: userRepo, notify: notify}
}

func (s *propositionService) Submit(ctx context.Context, donor *model.User, in SubmitPropositionInput) (*model.Proposition, error) {
	if donor == nil || donor.Role != model.RoleParticipant {
		return nil, ErrForbidden
	}
	in.MaterialType = strings.TrimSpace(in.MaterialType)
	in.Description = strings.TrimSpace(in.Description)
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.PickupAvailability = strings.TrimSpace(in.PickupAvailability)

	required := []struct {
		field, value string
	}{
		{"materialType", in.MaterialType},
		{"description", in.Description},
		{"pickupAddress", in.PickupAddress},
		{"city", in.City},
		{"postalCode", in.PostalCode},
		{"pickupAvailability", in.PickupAvailability},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, f.field)
		}
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	switch in.Condition {
	case "":
		in.Condition = model.ConditionGood
	case model.ConditionNew, model.ConditionGood, model.ConditionFair, model.ConditionNeedsRepair:
	default:
		return nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, in.Condition)
	}

	p := &model.Proposition{
		DonorUID:           donor.UID,
		CategoryID:         in.CategoryID,
		MaterialType:       in.MaterialType,
		Quantity:           in.Quantity,
		Description:        in.Description,
		Condition:          in.Condition,
		PickupAddress:      in.PickupAddress,
		City:               in.City,
		PostalCode:         in.PostalCode,
		PickupAvailability: in.PickupAvailability,
		Status:             model.PropositionStatusPending,
		TransporterStatus:  model.TransporterStatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) Get(ctx context.Context, actor *model.User, id uint64) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == model.RoleParticipant && p.DonorUID != actor.UID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *propositionService) ListByDonor(ctx context.Context, donor *model.User) ([]model.Proposition, error) {
	if donor == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListByDonor(ctx, donor.UID)
}

func (s *propositionService) ListPending(ctx context.Context, member *model.User) ([]model.Proposition, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	return s.repo.ListByStatus(ctx, model.PropositionStatusPending)
}

func (s *propositionService) ListMissions(ctx context.Context, transporter *model.User) ([]model.Proposition, error) {
	if transporter == nil || transporter.Role != model.RoleTransporter {
		return nil, ErrForbidden
	}
	return s.repo.ListByTransporter(ctx, transporter.UID)
}

func (s *propositionService) Validate(ctx context.Context, member *model.User, id uint64, approve bool, reason string) (*model.Proposition, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if approve {
		if !p.Status.CanTransitionTo(model.PropositionStatusValidated) {
			return nil, fmt.Errorf("%w: cannot validate proposition in status %s", ErrPrecondition, p.Status)
		}
		p.Status = model.PropositionStatusValidated
	} else {
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: refusal reason is required", ErrValidation)
		}
		if !p.Status.CanTransitionTo(model.PropositionStatusRefused) {
			return nil, fmt.Errorf("%w: cannot refuse proposition in status %s", ErrPrecondition, p.Status)
		}
		p.Status = model.PropositionStatusRefused
		p.RefusalReason = reason
	}
	p.ValidatorUID = &member.UID
	p.ValidatedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) AssignTransporter(ctx context.Context, member *model.User, id uint64, transporterUID string) (*model.Proposition, error) {
	if !isMember(member) {
		return nil, ErrForbidden
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PropositionStatusValidated {
		return nil, fmt.Errorf("%w: proposition must be validated before assignment", ErrPrecondition)
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
	p.TransporterUID = &transporter.UID
	p.TransporterStatus = model.TransporterStatusPending
	p.TransporterRefusalNote = ""
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, transporter.UID, "mission_assigned",
		fmt.Sprintf("Nouvelle mission: proposition #%d", p.ID),
		"Vous avez été assigné pour ramasser ce don. Veuillez accepter ou refuser la mission.",
		model.PropositionSubject(p.ID))
	return p, nil
}

// TransporterRespond handles the assigned transporter's accept/refuse. A
// refusal clears the assignment and notifies the validating member to
// reassign, mirroring the demande path.
func (s *propositionService) TransporterRespond(ctx context.Context, transporter *model.User, id uint64, accept bool, reason string) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if transporter == nil || p.TransporterUID == nil || *p.TransporterUID != transporter.UID {
		return nil, ErrForbidden
	}
	if accept {
		p.TransporterStatus = model.TransporterStatusAccepted
	} else {
		if p.Status != model.PropositionStatusValidated || p.TransporterReceived {
			return nil, fmt.Errorf("%w: cannot refuse mission for proposition in status %s", ErrPrecondition, p.Status)
		}
		p.TransporterStatus = model.TransporterStatusPending
		p.TransporterRefusalNote = reason
		p.TransporterUID = nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if !accept && p.ValidatorUID != nil {
		s.notify.Notify(ctx, *p.ValidatorUID, "mission_refused",
			fmt.Sprintf("Mission refusée: proposition #%d", p.ID),
			"Le transporteur a refusé la mission. Veuillez assigner un autre transporteur.",
			model.PropositionSubject(p.ID))
	}
	return p, nil
}

func (s *propositionService) ConfirmHandoff(ctx context.Context, donor *model.User, id uint64) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor == nil || p.DonorUID != donor.UID {
		return nil, ErrForbidden
	}
	if p.Status != model.PropositionStatusValidated || p.TransporterUID == nil {
		return nil, fmt.Errorf("%w: proposition is not ready for handoff", ErrPrecondition)
	}
	p.DonorConfirmedHandoff = true
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.ValidatorUID != nil {
		s.notify.Notify(ctx, *p.ValidatorUID, "handoff_confirmed",
			fmt.Sprintf("Remise confirmée: proposition #%d", p.ID),
			"Le donateur a confirmé la remise au transporteur. Vous pouvez ajouter ce don au stock.",
			model.PropositionSubject(p.ID))
	}
	return p, nil
}

func (s *propositionService) ConfirmReceipt(ctx context.Context, transporter *model.User, id uint64) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if transporter == nil || p.TransporterUID == nil || *p.TransporterUID != transporter.UID {
		return nil, ErrForbidden
	}
	if !p.DonorConfirmedHandoff {
		return nil, fmt.Errorf("%w: donor has not confirmed the handoff", ErrPrecondition)
	}
	p.TransporterReceived = true
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) Complete(ctx context.Context, actor *model.User, id uint64) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	assigned := actor != nil && p.TransporterUID != nil && *p.TransporterUID == actor.UID
	if !isMember(actor) && !assigned {
		return nil, ErrForbidden
	}
	if !p.DonorConfirmedHandoff || !p.TransporterReceived {
		return nil, fmt.Errorf("%w: handoff and receipt must both be confirmed", ErrPrecondition)
	}
	if !p.Status.CanTransitionTo(model.PropositionStatusCompleted) {
		return nil, fmt.Errorf("%w: cannot complete proposition in status %s", ErrPrecondition, p.Status)
	}
	p.Status = model.PropositionStatusCompleted
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) Cancel(ctx context.Context, donor *model.User, id uint64) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor == nil || p.DonorUID != donor.UID {
		return nil, ErrForbidden
	}
	if p.DonorConfirmedHandoff || !p.Status.CanTransitionTo(model.PropositionStatusCancelled) {
		return nil, fmt.Errorf("%w: proposition can no longer be cancelled", ErrPrecondition)
	}
	p.Status = model.PropositionStatusCancelled
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) SetPhotoURL(ctx context.Context, donor *model.User, id uint64, url string) (*model.Proposition, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor == nil || p.DonorUID != donor.UID {
		return nil, ErrForbidden
	}
	p.PhotoURL = &url
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propositionService) find(ctx context.Context, id uint64) (*model.Proposition, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func isMember(u *model.User) bool {
	return u != nil && (u.Role == model.RoleMember || u.Role == model.RoleAdmin)
}
