package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"tush00nka/bbbab_chat/internal/event"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
	"tush00nka/bbbab_chat/internal/repository"
)

type ConversationOptions struct {
	// GroupMinParticipants is the smallest distinct participant count a group may start with.
	GroupMinParticipants int
}

type conversationService struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	broadcaster      Broadcaster
	log              *slog.Logger
	opts             ConversationOptions
}

func NewConversationService(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	log *slog.Logger,
	opts ConversationOptions,
) ConversationService {
	if opts.GroupMinParticipants < 1 {
		opts.GroupMinParticipants = 1
	}

	return &conversationService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
		log:              log,
		opts:             opts,
	}
}

func (s *conversationService) ResolveOrCreate(ctx context.Context, in CreateConversationInput) (*model.Conversation, bool, error) {
	if err := validate.Struct(in); err != nil {
		return nil, false, validationError(err)
	}

	participantIDs := lo.Uniq(in.ParticipantIDs)

	var name string
	if in.IsGroup {
		if in.Name != nil {
			name = strings.TrimSpace(*in.Name)
		}
		if name == "" {
			return nil, false, apperr.Validation("group conversations require a name")
		}
		if len(participantIDs) < s.opts.GroupMinParticipants {
			return nil, false, apperr.Validation("group conversations require at least %d participants", s.opts.GroupMinParticipants)
		}
	} else if len(participantIDs) != 2 {
		return nil, false, apperr.Validation("direct conversations require exactly two distinct participants")
	}

	missing, err := s.userRepo.FindMissing(ctx, participantIDs)
	if err != nil {
		return nil, false, apperr.Internal(err, "failed to load participants")
	}
	if len(missing) > 0 {
		return nil, false, apperr.NotFound("participants not found: %v", missing)
	}

	if !in.IsGroup {
		return s.resolveDirect(ctx, participantIDs[0], participantIDs[1])
	}

	conv := &model.Conversation{Name: &name, IsGroup: true}
	if err := s.conversationRepo.CreateWithParticipants(ctx, conv, participantIDs); err != nil {
		return nil, false, apperr.Internal(err, "failed to create conversation")
	}

	return s.created(ctx, conv.ID)
}

func (s *conversationService) resolveDirect(ctx context.Context, user1ID, user2ID uint) (*model.Conversation, bool, error) {
	existing, err := s.conversationRepo.FindDirect(ctx, user1ID, user2ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, apperr.Internal(err, "failed to search direct conversation")
	}

	conv := &model.Conversation{
		IsGroup:   false,
		DirectKey: lo.ToPtr(model.DirectKey(user1ID, user2ID)),
	}

	err = s.conversationRepo.CreateWithParticipants(ctx, conv, []uint{user1ID, user2ID})
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request created the pair first; its row is the answer.
		existing, findErr := s.conversationRepo.FindDirect(ctx, user1ID, user2ID)
		switch {
		case findErr == nil:
			s.log.Debug("direct conversation resolved after concurrent create",
				"conversation_id", existing.ID, "user1_id", user1ID, "user2_id", user2ID)
			return existing, false, nil
		case errors.Is(findErr, repository.ErrNotFound):
			return nil, false, apperr.Conflict("direct conversation for users %d and %d is in an inconsistent state", user1ID, user2ID)
		default:
			return nil, false, apperr.Internal(findErr, "failed to search direct conversation")
		}
	}
	if err != nil {
		return nil, false, apperr.Internal(err, "failed to create conversation")
	}

	return s.created(ctx, conv.ID)
}

// created reloads a freshly committed conversation and announces it.
func (s *conversationService) created(ctx context.Context, id uint) (*model.Conversation, bool, error) {
	conv, err := s.conversationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, false, apperr.Internal(err, "failed to load created conversation")
	}

	s.log.Info("conversation created",
		"conversation_id", conv.ID, "is_group", conv.IsGroup, "participants", len(conv.Participants))
	publish(s.log, s.broadcaster, event.NewConversation(conv))

	return conv, true, nil
}

func (s *conversationService) GetConversation(ctx context.Context, id uint) (*model.Conversation, error) {
	if id == 0 {
		return nil, apperr.Validation("invalid conversation ID")
	}

	conv, err := s.conversationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("conversation %d not found", id)
		}
		return nil, apperr.Internal(err, "failed to load conversation")
	}

	return conv, nil
}

func (s *conversationService) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	conversations, err := s.conversationRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list conversations")
	}
	return conversations, nil
}
