// Package event defines the frames pushed to realtime clients.
package event

import (
	"time"

	"tush00nka/bbbab_chat/internal/model"
)

type Type string

const (
	TypeNewMessage      Type = "NEW_MESSAGE"
	TypeNewConversation Type = "NEW_CONVERSATION"
)

// Event is serialized as {"type": ..., "payload": ...}.
type Event struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload"`
}

type MessagePayload struct {
	ID             uint              `json:"id"`
	ConversationID uint              `json:"conversationId"`
	SenderID       uint              `json:"senderId"`
	Content        string            `json:"content"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Sender         model.UserSummary `json:"sender"`
}

type ConversationPayload struct {
	ID           uint                `json:"id"`
	Name         *string             `json:"name,omitempty"`
	IsGroup      bool                `json:"isGroup"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Participants []model.UserSummary `json:"participants"`
}

func NewMessage(msg *model.Message) Event {
	return Event{
		Type: TypeNewMessage,
		Payload: MessagePayload{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Content:        msg.Content,
			CreatedAt:      msg.CreatedAt,
			UpdatedAt:      msg.UpdatedAt,
			Sender:         msg.Sender,
		},
	}
}

func NewConversation(conv *model.Conversation) Event {
	participants := conv.Participants
	if participants == nil {
		participants = []model.UserSummary{}
	}

	return Event{
		Type: TypeNewConversation,
		Payload: ConversationPayload{
			ID:           conv.ID,
			Name:         conv.Name,
			IsGroup:      conv.IsGroup,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			Participants: participants,
		},
	}
}
