package model

import "time"

type DemandeStatus string

const (
	DemandeStatusPending    DemandeStatus = "pending"
	DemandeStatusInProgress DemandeStatus = "in_progress"
	DemandeStatusValidated  DemandeStatus = "validated"
	DemandeStatusRefused    DemandeStatus = "refused"
	DemandeStatusInDelivery DemandeStatus = "in_delivery"
	DemandeStatusCompleted  DemandeStatus = "completed"
	DemandeStatusCancelled  DemandeStatus = "cancelled"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// demandeTransitions lists the allowed status edges. A transporter refusal
// cycles in_progress back to validated so the demande is re-assignable.
var demandeTransitions = map[DemandeStatus][]DemandeStatus{
	DemandeStatusPending:    {DemandeStatusValidated, DemandeStatusRefused, DemandeStatusCancelled},
	DemandeStatusValidated:  {DemandeStatusInProgress, DemandeStatusCancelled},
	DemandeStatusInProgress: {DemandeStatusInDelivery, DemandeStatusValidated},
	DemandeStatusInDelivery: {DemandeStatusCompleted},
}

func (s DemandeStatus) CanTransitionTo(next DemandeStatus) bool {
	for _, allowed := range demandeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Demande is a participant's request for an item.
type Demande struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	RequesterUID string `gorm:"column:requester_uid;size:128;index;not null"`

	CategoryID   *uint64 `gorm:"column:category_id;index"`
	MaterialType string  `gorm:"column:material_type;size:200;not null"`
	Description  string  `gorm:"type:text;not null"`
	Quantity     int     `gorm:"not null;default:1"`
	Urgency      Urgency `gorm:"size:20;not null;default:medium"`

	Status        DemandeStatus `gorm:"column:status;size:20;not null;default:pending"`
	ValidatorUID  *string       `gorm:"column:validator_uid;size:128;index"`
	ValidatedAt   *time.Time    `gorm:"column:validated_at"`
	RefusalReason string        `gorm:"column:refusal_reason;type:text"`

	DeliveryAddress      string  `gorm:"column:delivery_address;type:text;not null"`
	City                 string  `gorm:"size:100;not null"`
	PostalCode           string  `gorm:"column:postal_code;size:10;not null"`
	DeliveryAvailability string  `gorm:"column:delivery_availability;type:text"`
	DonID                *uint64 `gorm:"column:don_id;index"`
	AttributedAt         *time.Time `gorm:"column:attributed_at"`

	TransporterUID         *string    `gorm:"column:transporter_uid;size:128;index"`
	TransporterConfirmed   bool       `gorm:"column:transporter_confirmed;default:false"`
	TransporterRespondedAt *time.Time `gorm:"column:transporter_responded_at"`
	TransporterRefusalNote string     `gorm:"column:transporter_refusal_note;type:text"`
	DeliveredAt            *time.Time `gorm:"column:delivered_at"`
	ReceptionConfirmed     bool       `gorm:"column:reception_confirmed;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Demande) TableName() string {
	return "demandes"
}
