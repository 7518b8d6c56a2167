package model

import "time"

// Notification is created fire-and-forget on workflow transitions. At most
// one of PropositionID/DemandeID is set; services build it through
// NotificationSubject so the pairing stays consistent.
type Notification struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement"`
	ReceiverUID   string     `gorm:"column:receiver_uid;size:128;index;not null"`
	Type          string     `gorm:"column:type;size:64;not null"`
	Title         string     `gorm:"column:title;size:200"`
	Body          string     `gorm:"column:body;type:text"`
	PropositionID *uint64    `gorm:"column:proposition_id;index"`
	DemandeID     *uint64    `gorm:"column:demande_id;index"`
	ReadAt        *time.Time `gorm:"column:read_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSubject is a tagged reference to the record a notification is
// about: a proposition or a demande, never both. The zero value carries no
// subject.
type NotificationSubject struct {
	propositionID *uint64
	demandeID     *uint64
}

func NoSubject() NotificationSubject {
	return NotificationSubject{}
}

func PropositionSubject(id uint64) NotificationSubject {
	return NotificationSubject{propositionID: &id}
}

func DemandeSubject(id uint64) NotificationSubject {
	return NotificationSubject{demandeID: &id}
}

func (s NotificationSubject) Apply(n *Notification) {
	n.PropositionID = s.propositionID
	n.DemandeID = s.demandeID
}
