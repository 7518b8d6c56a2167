package model

import "time"

type PropositionStatus string

const (
	PropositionStatusPending   PropositionStatus = "pending"
	PropositionStatusValidated PropositionStatus = "validated"
	PropositionStatusRefused   PropositionStatus = "refused"
	PropositionStatusCancelled PropositionStatus = "cancelled"
	PropositionStatusPickedUp  PropositionStatus = "picked_up"
	PropositionStatusCompleted PropositionStatus = "completed"
)

type TransporterStatus string

const (
	TransporterStatusPending  TransporterStatus = "pending"
	TransporterStatusAccepted TransporterStatus = "accepted"
	TransporterStatusRefused  TransporterStatus = "refused"
)

type ItemCondition string

const (
	ConditionNew         ItemCondition = "new"
	ConditionGood        ItemCondition = "good"
	ConditionFair        ItemCondition = "fair"
	ConditionNeedsRepair ItemCondition = "needs_repair"
)

// propositionTransitions lists the allowed status edges. Refused and
// cancelled are terminal; completed is terminal.
var propositionTransitions = map[PropositionStatus][]PropositionStatus{
	PropositionStatusPending:   {PropositionStatusValidated, PropositionStatusRefused, PropositionStatusCancelled},
	PropositionStatusValidated: {PropositionStatusCompleted, PropositionStatusCancelled},
}

func (s PropositionStatus) CanTransitionTo(next PropositionStatus) bool {
	for _, allowed := range propositionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Proposition is a donor's offer of a physical item.
type Proposition struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	DonorUID string `gorm:"column:donor_uid;size:128;index;not null"`

	CategoryID          *uint64       `gorm:"column:category_id;index"`
	MaterialType        string        `gorm:"column:material_type;size:200;not null"`
	Quantity            int           `gorm:"not null;default:1"`
	Description         string        `gorm:"type:text;not null"`
	Condition           ItemCondition `gorm:"column:item_condition;size:20;not null;default:good"`
	PhotoURL            *string       `gorm:"column:photo_url;size:512"`
	PickupAddress       string        `gorm:"column:pickup_address;type:text;not null"`
	City                string        `gorm:"size:100;not null"`
	PostalCode          string        `gorm:"column:postal_code;size:10;not null"`
	PickupAvailability  string        `gorm:"column:pickup_availability;type:text;not null"`

	Status                 PropositionStatus `gorm:"column:status;size:20;not null;default:pending"`
	ValidatorUID           *string           `gorm:"column:validator_uid;size:128;index"`
	ValidatedAt            *time.Time        `gorm:"column:validated_at"`
	RefusalReason          string            `gorm:"column:refusal_reason;type:text"`
	TransporterUID         *string           `gorm:"column:transporter_uid;size:128;index"`
	TransporterStatus      TransporterStatus `gorm:"column:transporter_status;size:20;not null;default:pending"`
	TransporterRefusalNote string            `gorm:"column:transporter_refusal_note;type:text"`
	PickupDate             *time.Time        `gorm:"column:pickup_date"`
	DonorConfirmedHandoff  bool              `gorm:"column:donor_confirmed_handoff;default:false"`
	TransporterReceived    bool              `gorm:"column:transporter_received;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Proposition) TableName() string {
	return "propositions"
}
