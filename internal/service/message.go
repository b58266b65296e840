package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"tush00nka/bbbab_chat/internal/event"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
	"tush00nka/bbbab_chat/internal/repository"
)

const DefaultMaxContentLength = model.MaxMessageContentLength

type MessageOptions struct {
	MaxContentLength int
}

type messageService struct {
	messageRepo      repository.MessageRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	cache            repository.MessageCache
	broadcaster      Broadcaster
	log              *slog.Logger
	opts             MessageOptions
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	cache repository.MessageCache,
	broadcaster Broadcaster,
	log *slog.Logger,
	opts MessageOptions,
) MessageService {
	if opts.MaxContentLength <= 0 || opts.MaxContentLength > model.MaxMessageContentLength {
		opts.MaxContentLength = DefaultMaxContentLength
	}
	if cache == nil {
		cache = repository.NopMessageCache{}
	}

	return &messageService{
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		cache:            cache,
		broadcaster:      broadcaster,
		log:              log,
		opts:             opts,
	}
}

type sendMessageInput struct {
	ConversationID uint   `validate:"gt=0"`
	SenderID       uint   `validate:"gt=0"`
	Content        string `validate:"required"`
}

func (s *messageService) SendMessage(ctx context.Context, conversationID, senderID uint, content string) (*model.Message, error) {
	in := sendMessageInput{ConversationID: conversationID, SenderID: senderID, Content: content}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	if strings.TrimSpace(content) == "" {
		return nil, apperr.Validation("message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > s.opts.MaxContentLength {
		return nil, apperr.Validation("message content exceeds %d characters", s.opts.MaxContentLength)
	}

	exists, err := s.conversationRepo.Exists(ctx, conversationID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load conversation")
	}
	if !exists {
		return nil, apperr.NotFound("conversation %d not found", conversationID)
	}

	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("sender %d not found", senderID)
		}
		return nil, apperr.Internal(err, "failed to load sender")
	}

	member, err := s.conversationRepo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to check membership")
	}
	if !member {
		return nil, apperr.Forbidden("user %d is not a participant of conversation %d", senderID, conversationID)
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, apperr.Internal(err, "failed to save message")
	}

	stored, err := s.messageRepo.FindByID(ctx, msg.ID)
	if err != nil {
		// The row is committed; answer with what the insert returned.
		s.log.Warn("failed to reload message", "message_id", msg.ID, "error", err)
		msg.Sender = sender.Summary()
		stored = msg
	}

	if err := s.cache.Invalidate(ctx, conversationID); err != nil {
		s.log.Warn("failed to invalidate message cache", "conversation_id", conversationID, "error", err)
	}

	publish(s.log, s.broadcaster, event.NewMessage(stored))

	return stored, nil
}

func (s *messageService) GetMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	if conversationID == 0 {
		return nil, apperr.Validation("invalid conversation ID")
	}

	exists, err := s.conversationRepo.Exists(ctx, conversationID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load conversation")
	}
	if !exists {
		return nil, apperr.NotFound("conversation %d not found", conversationID)
	}

	cached, ok, err := s.cache.Get(ctx, conversationID)
	if err != nil {
		s.log.Warn("failed to read message cache", "conversation_id", conversationID, "error", err)
	}
	if ok {
		return cached, nil
	}

	// Taken before the database read so a send landing in between voids the refill.
	generation, genErr := s.cache.Generation(ctx, conversationID)
	if genErr != nil {
		s.log.Warn("failed to read message cache generation", "conversation_id", conversationID, "error", genErr)
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to get messages for conversation")
	}

	if genErr == nil {
		if err := s.cache.Set(ctx, conversationID, generation, messages); err != nil {
			s.log.Warn("failed to fill message cache", "conversation_id", conversationID, "error", err)
		}
	}

	return messages, nil
}
