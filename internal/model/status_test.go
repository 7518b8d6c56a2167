package model

import "testing"

func TestPropositionStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from PropositionStatus
		to   PropositionStatus
		want bool
	}{
		{"pending to validated", PropositionStatusPending, PropositionStatusValidated, true},
		{"pending to refused", PropositionStatusPending, PropositionStatusRefused, true},
		{"pending to completed", PropositionStatusPending, PropositionStatusCompleted, false},
		{"validated to completed", PropositionStatusValidated, PropositionStatusCompleted, true},
		{"validated to cancelled", PropositionStatusValidated, PropositionStatusCancelled, true},
		{"refused is terminal", PropositionStatusRefused, PropositionStatusValidated, false},
		{"completed is terminal", PropositionStatusCompleted, PropositionStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestDemandeStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from DemandeStatus
		to   DemandeStatus
		want bool
	}{
		{"pending to validated", DemandeStatusPending, DemandeStatusValidated, true},
		{"pending to refused", DemandeStatusPending, DemandeStatusRefused, true},
		{"validated to in_progress", DemandeStatusValidated, DemandeStatusInProgress, true},
		{"in_progress back to validated", DemandeStatusInProgress, DemandeStatusValidated, true},
		{"in_progress to in_delivery", DemandeStatusInProgress, DemandeStatusInDelivery, true},
		{"in_delivery to completed", DemandeStatusInDelivery, DemandeStatusCompleted, true},
		{"refused is terminal", DemandeStatusRefused, DemandeStatusValidated, false},
		{"completed is terminal", DemandeStatusCompleted, DemandeStatusInDelivery, false},
		{"pending cannot skip to delivery", DemandeStatusPending, DemandeStatusInDelivery, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
}
