package service

import (
	"context"
	"errors"
	"testing"
)

func TestSendMessage(t *testing.T) {
	donor := testDonor()
	member := testMember()
	users := newMemUserRepo(donor, member)
	msgs := &memMessageRepo{}
	notifs := &memNotificationRepo{}
	svc := NewMessageService(msgs, users, NewNotificationService(notifs))

	msg, err := svc.Send(context.Background(), donor, member.UID, "Bonjour, où déposer le don ?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.SenderUID != donor.UID || msg.ReceiverUID != member.UID {
		t.Fatalf("unexpected routing: %+v", msg)
	}
	if len(notifs.created) != 1 || notifs.created[0].ReceiverUID != member.UID {
		t.Fatalf("expected one notification for receiver, got %+v", notifs.created)
	}

	t.Run("unknown receiver", func(t *testing.T) {
		if _, err := svc.Send(context.Background(), donor, "nobody", "hello"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("self message", func(t *testing.T) {
		if _, err := svc.Send(context.Background(), donor, donor.UID, "hello"); !errors.Is(err, ErrValidation) {
			t.Fatalf("want ErrValidation, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		if _, err := svc.Send(context.Background(), donor, member.UID, ""); !errors.Is(err, ErrValidation) {
			t.Fatalf("want ErrValidation, got %v", err)
		}
	})
}

func TestThreadIsSymmetric(t *testing.T) {
	donor := testDonor()
	member := testMember()
	users := newMemUserRepo(donor, member)
	msgs := &memMessageRepo{}
	svc := NewMessageService(msgs, users, NewNotificationService(&memNotificationRepo{}))

	ctx := context.Background()
	if _, err := svc.Send(ctx, donor, member.UID, "question"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, member, donor.UID, "réponse"); err != nil {
		t.Fatalf("send: %v", err)
	}

	fromDonor, err := svc.Thread(ctx, donor, member.UID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	fromMember, err := svc.Thread(ctx, member, donor.UID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(fromDonor) != 2 || len(fromMember) != 2 {
		t.Fatalf("want both views to see 2 messages, got %d and %d", len(fromDonor), len(fromMember))
	}
}
