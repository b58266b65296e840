package model

import (
	"fmt"
	"time"
)

type Conversation struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    *string `gorm:"size:255" json:"name,omitempty"`
	IsGroup bool    `gorm:"not null;default:false" json:"isGroup"`
	// DirectKey is set only for direct conversations; the unique index keeps
	// one conversation per unordered user pair.
	DirectKey *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Participants []UserSummary `gorm:"-" json:"participants"`
}

// Participant is a row of the conversation membership relation.
type Participant struct {
	ConversationID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID         uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Conversation *Conversation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User         *User         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Participant) TableName() string {
	return "conversation_participants"
}

// DirectKey normalizes an unordered pair of user ids.
func DirectKey(userA, userB uint) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}
