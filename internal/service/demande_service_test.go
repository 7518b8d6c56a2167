package service

import (
	"context"
	"errors"
	"testing"

	"github.com/solidon/donation-backend/internal/model"
)

type demandeFixture struct {
	svc         DemandeService
	demandeRepo *memDemandeRepo
	donRepo     *memDonRepo
	notifRepo   *memNotificationRepo
}

func newDemandeFixture(users ...*model.User) *demandeFixture {
	demandeRepo := newMemDemandeRepo()
	donRepo := newMemDonRepo()
	notifRepo := &memNotificationRepo{}
	return &demandeFixture{
		svc:         NewDemandeService(demandeRepo, donRepo, newMemUserRepo(users...), NewNotificationService(notifRepo)),
		demandeRepo: demandeRepo,
		donRepo:     donRepo,
		notifRepo:   notifRepo,
	}
}

func validDemandeInput() SubmitDemandeInput {
	catID := uint64(4)
	return SubmitDemandeInput{
		CategoryID:      &catID,
		MaterialType:    "bureau",
		Description:     "Bureau pour association de quartier",
		Quantity:        1,
		Urgency:         model.UrgencyHigh,
		DeliveryAddress: "3 avenue de la République",
		City:            "Villeurbanne",
		PostalCode:      "69100",
	}
}

func TestSubmitDemande(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input", func(t *testing.T) {
		f := newDemandeFixture()
		d, err := f.svc.Submit(ctx, testRequester(), validDemandeInput())
		if err != nil {
			t.Fatalf("Submit err: %v", err)
		}
		if d.Status != model.DemandeStatusPending || d.Urgency != model.UrgencyHigh {
			t.Fatalf("got %+v", d)
		}
	})

	t.Run("urgency defaults to medium", func(t *testing.T) {
		f := newDemandeFixture()
		in := validDemandeInput()
		in.Urgency = ""
		d, err := f.svc.Submit(ctx, testRequester(), in)
		if err != nil {
			t.Fatalf("Submit err: %v", err)
		}
		if d.Urgency != model.UrgencyMedium {
			t.Fatalf("urgency=%s", d.Urgency)
		}
	})

	t.Run("missing material type", func(t *testing.T) {
		f := newDemandeFixture()
		in := validDemandeInput()
		in.MaterialType = ""
		if _, err := f.svc.Submit(ctx, testRequester(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("want ErrValidation, got %v", err)
		}
	})
}

func TestListPendingDemandes(t *testing.T) {
	ctx := context.Background()
	member := testMember()
	f := newDemandeFixture()

	d1, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())
	d2, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())
	if _, err := f.svc.Validate(ctx, member, d1.ID, true, ""); err != nil {
		t.Fatalf("Validate err: %v", err)
	}

	list, err := f.svc.ListPending(ctx, member)
	if err != nil {
		t.Fatalf("ListPending err: %v", err)
	}
	if len(list) != 1 || list[0].ID != d2.ID {
		t.Fatalf("pending list=%+v", list)
	}

	if _, err := f.svc.ListPending(ctx, testRequester()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestDemandeRefusalIsTerminal(t *testing.T) {
	ctx := context.Background()
	member, t1 := testMember(), testTransporter("t-1")
	f := newDemandeFixture(t1)

	d, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())
	d, err := f.svc.Validate(ctx, member, d.ID, false, "hors périmètre")
	if err != nil {
		t.Fatalf("Validate err: %v", err)
	}
	if d.Status != model.DemandeStatusRefused || d.RefusalReason != "hors périmètre" {
		t.Fatalf("got %+v", d)
	}

	if _, err := f.svc.AssignTransporter(ctx, member, d.ID, t1.UID); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("assignment on refused demande: want ErrPrecondition, got %v", err)
	}
}

func TestDemandeTransporterRefusalRevertsToValidated(t *testing.T) {
	ctx := context.Background()
	member := testMember()
	t1, t2 := testTransporter("t-1"), testTransporter("t-2")
	f := newDemandeFixture(t1, t2)

	d, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())
	d, _ = f.svc.Validate(ctx, member, d.ID, true, "")
	d, err := f.svc.AssignTransporter(ctx, member, d.ID, t1.UID)
	if err != nil {
		t.Fatalf("AssignTransporter err: %v", err)
	}

	d, err = f.svc.TransporterRespond(ctx, t1, d.ID, false, "véhicule indisponible")
	if err != nil {
		t.Fatalf("TransporterRespond err: %v", err)
	}
	if d.Status != model.DemandeStatusValidated {
		t.Fatalf("status=%s", d.Status)
	}
	if d.TransporterUID != nil || d.TransporterConfirmed {
		t.Fatalf("assignment not cleared: %+v", d)
	}
	if d.TransporterRefusalNote != "véhicule indisponible" || d.TransporterRespondedAt == nil {
		t.Fatalf("refusal not recorded: %+v", d)
	}

	if d, err = f.svc.AssignTransporter(ctx, member, d.ID, t2.UID); err != nil {
		t.Fatalf("reassign err: %v", err)
	}
	if d.TransporterUID == nil || *d.TransporterUID != t2.UID {
		t.Fatalf("after reassign: %+v", d)
	}
}

func TestDemandeDeliveryFlow(t *testing.T) {
	ctx := context.Background()
	requester, member, t1 := testRequester(), testMember(), testTransporter("t-1")
	f := newDemandeFixture(t1)

	d, _ := f.svc.Submit(ctx, requester, validDemandeInput())
	d, _ = f.svc.Validate(ctx, member, d.ID, true, "")
	d, _ = f.svc.AssignTransporter(ctx, member, d.ID, t1.UID)

	if _, err := f.svc.StartDelivery(ctx, t1, d.ID); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("start before accept: want ErrPrecondition, got %v", err)
	}

	d, err := f.svc.TransporterRespond(ctx, t1, d.ID, true, "")
	if err != nil {
		t.Fatalf("accept err: %v", err)
	}
	if d.Status != model.DemandeStatusInProgress || !d.TransporterConfirmed || d.TransporterRespondedAt == nil {
		t.Fatalf("after accept: %+v", d)
	}

	if d, err = f.svc.StartDelivery(ctx, t1, d.ID); err != nil {
		t.Fatalf("StartDelivery err: %v", err)
	}
	if d.Status != model.DemandeStatusInDelivery {
		t.Fatalf("status=%s", d.Status)
	}

	if _, err := f.svc.ConfirmReception(ctx, requester, d.ID); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("reception before completion: want ErrPrecondition, got %v", err)
	}

	if d, err = f.svc.CompleteDelivery(ctx, t1, d.ID); err != nil {
		t.Fatalf("CompleteDelivery err: %v", err)
	}
	if d.Status != model.DemandeStatusCompleted || d.DeliveredAt == nil {
		t.Fatalf("after completion: %+v", d)
	}

	if d, err = f.svc.ConfirmReception(ctx, requester, d.ID); err != nil {
		t.Fatalf("ConfirmReception err: %v", err)
	}
	if !d.ReceptionConfirmed {
		t.Fatal("reception flag not set")
	}

	// second confirmation signals, does not error state away
	d, err = f.svc.ConfirmReception(ctx, requester, d.ID)
	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("want ErrAlreadyConfirmed, got %v", err)
	}
	if d == nil || !d.ReceptionConfirmed {
		t.Fatalf("state changed on repeat confirmation: %+v", d)
	}
}

func TestDemandeTransporterRefusalAfterDelivery(t *testing.T) {
	ctx := context.Background()
	requester, member, t1 := testRequester(), testMember(), testTransporter("t-1")
	f := newDemandeFixture(t1)

	d, _ := f.svc.Submit(ctx, requester, validDemandeInput())
	d, _ = f.svc.Validate(ctx, member, d.ID, true, "")
	d, _ = f.svc.AssignTransporter(ctx, member, d.ID, t1.UID)
	d, _ = f.svc.TransporterRespond(ctx, t1, d.ID, true, "")
	d, _ = f.svc.StartDelivery(ctx, t1, d.ID)

	if _, err := f.svc.TransporterRespond(ctx, t1, d.ID, false, "trop tard"); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("refuse while in delivery: want ErrPrecondition, got %v", err)
	}

	d, err := f.svc.CompleteDelivery(ctx, t1, d.ID)
	if err != nil {
		t.Fatalf("CompleteDelivery err: %v", err)
	}
	if _, err := f.svc.TransporterRespond(ctx, t1, d.ID, false, "trop tard"); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("refuse on completed demande: want ErrPrecondition, got %v", err)
	}

	got, _ := f.demandeRepo.FindByID(ctx, d.ID)
	if got.Status != model.DemandeStatusCompleted || got.TransporterUID == nil || got.DeliveredAt == nil {
		t.Fatalf("completed demande mutated by refusal: %+v", got)
	}
}

func TestAttributeDon(t *testing.T) {
	ctx := context.Background()
	member := testMember()
	f := newDemandeFixture()

	catID := uint64(4)
	don := &model.Don{PropositionID: 1, CategoryID: &catID, MaterialType: "bureau", Quantity: 1, Description: "d", Status: model.DonStatusInStock}
	if err := f.donRepo.CreateFromProposition(ctx, don); err != nil {
		t.Fatalf("seed don: %v", err)
	}

	d1, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())
	d2, _ := f.svc.Submit(ctx, testRequester(), validDemandeInput())

	d1, err := f.svc.AttributeDon(ctx, member, d1.ID, don.ID)
	if err != nil {
		t.Fatalf("AttributeDon err: %v", err)
	}
	if d1.DonID == nil || *d1.DonID != don.ID || d1.AttributedAt == nil {
		t.Fatalf("after attribution: %+v", d1)
	}
	if d1.Status != model.DemandeStatusPending {
		t.Fatalf("attribution must not change status, got %s", d1.Status)
	}

	if _, err := f.svc.AttributeDon(ctx, member, d2.ID, don.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("double attribution: want ErrConflict, got %v", err)
	}

	if _, err := f.svc.AttributeDon(ctx, testRequester(), d2.ID, don.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}
