package model

import "time"

// MaxMessageContentLength matches the size of the content column.
const MaxMessageContentLength = 1000

type Message struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ConversationID uint        `gorm:"not null;index:idx_messages_timeline,priority:1" json:"conversationId"`
	SenderID       uint        `gorm:"not null;index" json:"senderId"`
	Content        string      `gorm:"size:1000;not null" json:"content"`
	CreatedAt      time.Time   `gorm:"index:idx_messages_timeline,priority:2" json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Sender         UserSummary `gorm:"-" json:"sender"`

	Conversation *Conversation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Author       *User         `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
