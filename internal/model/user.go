package model

import "time"

type Role string

const (
	RoleParticipant Role = "participant"
	RoleMember      Role = "member"
	RoleTransporter Role = "transporter"
	RoleAdmin       Role = "admin"
)

// User is a single actor entity; Role tags which capability profile applies.
// Vehicle and Available are only meaningful for transporters.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UID       string    `gorm:"column:uid;size:128;uniqueIndex;not null"`
	Name      string    `gorm:"size:120;not null"`
	Role      Role      `gorm:"column:role;size:20;not null;default:participant"`
	Phone     string    `gorm:"size:20"`
	Address   string    `gorm:"size:255"`
	Vehicle   string    `gorm:"size:100"`
	Available bool      `gorm:"column:available;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
