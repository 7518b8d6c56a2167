package model

import "time"

type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderUID   string    `gorm:"column:sender_uid;size:128;index" json:"senderUid"`
	ReceiverUID string    `gorm:"column:receiver_uid;size:128;index" json:"receiverUid"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
