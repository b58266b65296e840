//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_service.go -package=mocks
package service

import (
	"context"

	"tush00nka/bbbab_chat/internal/event"
	"tush00nka/bbbab_chat/internal/model"
)

type UserService interface {
	CreateUser(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type ConversationService interface {
	// ResolveOrCreate returns the existing direct conversation for a pair or
	// creates a new conversation. created is false only for the dedup path.
	ResolveOrCreate(ctx context.Context, in CreateConversationInput) (conv *model.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id uint) (*model.Conversation, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*model.Message, error)
	GetMessages(ctx context.Context, conversationID uint) ([]model.Message, error)
}

// Broadcaster pushes events to every live realtime connection and reports
// how many connections accepted the frame.
type Broadcaster interface {
	Broadcast(ev event.Event) int
}

type CreateConversationInput struct {
	Name           *string
	IsGroup        bool
	ParticipantIDs []uint `validate:"required,min=1,dive,gt=0"`
}
