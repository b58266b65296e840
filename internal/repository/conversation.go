package repository

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tush00nka/bbbab_chat/internal/model"
)

type ConversationRepository interface {
	Exists(ctx context.Context, id uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Conversation, error)
	List(ctx context.Context) ([]model.Conversation, error)
	// FindDirect returns the direct conversation whose participants are exactly
	// {user1ID, user2ID}, or ErrNotFound.
	FindDirect(ctx context.Context, user1ID, user2ID uint) (*model.Conversation, error)
	// CreateWithParticipants inserts the conversation and its participant rows
	// in one transaction. Repeated user ids are stored once. A direct
	// conversation that already exists for the pair fails with ErrDuplicate.
	CreateWithParticipants(ctx context.Context, conv *model.Conversation, userIDs []uint) error
	// AddParticipants links users to a conversation. Existing links are kept.
	AddParticipants(ctx context.Context, conversationID uint, userIDs []uint) error
	IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error)
	Participants(ctx context.Context, conversationID uint) ([]model.UserSummary, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Conversation{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, translate(err)
	}

	participants, err := r.Participants(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	conv.Participants = participants

	return &conv, nil
}

func (r *conversationRepository) List(ctx context.Context) ([]model.Conversation, error) {
	conversations := []model.Conversation{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&conversations).Error; err != nil {
		return nil, err
	}

	if len(conversations) == 0 {
		return conversations, nil
	}

	ids := lo.Map(conversations, func(c model.Conversation, _ int) uint { return c.ID })
	byConversation, err := r.participantsOf(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		conversations[i].Participants = participantsOrEmpty(byConversation[conversations[i].ID])
	}

	return conversations, nil
}

func (r *conversationRepository) FindDirect(ctx context.Context, user1ID, user2ID uint) (*model.Conversation, error) {
	var ids []uint

	// Both users present and nobody else: a conversation holding a third
	// member, or only one of the two, does not match.
	err := r.db.WithContext(ctx).
		Table("conversations AS c").
		Joins("JOIN conversation_participants AS p ON p.conversation_id = c.id").
		Where("c.is_group = ?", false).
		Group("c.id").
		Having("COUNT(*) = 2 AND SUM(CASE WHEN p.user_id IN (?, ?) THEN 1 ELSE 0 END) = 2", user1ID, user2ID).
		Order("c.id ASC").
		Limit(1).
		Pluck("c.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search direct conversation: %w", err)
	}

	if len(ids) == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, ids[0])
}

func (r *conversationRepository) CreateWithParticipants(ctx context.Context, conv *model.Conversation, userIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(conv).Error; err != nil {
			return translate(err)
		}

		return (&conversationRepository{db: tx}).AddParticipants(ctx, conv.ID, userIDs)
	})
}

func (r *conversationRepository) AddParticipants(ctx context.Context, conversationID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}

	rows := lo.Map(lo.Uniq(userIDs), func(userID uint, _ int) model.Participant {
		return model.Participant{ConversationID: conversationID, UserID: userID}
	})

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to add participants to conversation %d: %w", conversationID, translate(err))
	}

	return nil
}

func (r *conversationRepository) IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *conversationRepository) Participants(ctx context.Context, conversationID uint) ([]model.UserSummary, error) {
	byConversation, err := r.participantsOf(ctx, r.db, []uint{conversationID})
	if err != nil {
		return nil, err
	}
	return participantsOrEmpty(byConversation[conversationID]), nil
}

type participantRow struct {
	ConversationID uint
	ID             uint
	Username       string
}

func (r *conversationRepository) participantsOf(ctx context.Context, db *gorm.DB, conversationIDs []uint) (map[uint][]model.UserSummary, error) {
	var rows []participantRow
	err := db.WithContext(ctx).
		Table("conversation_participants AS p").
		Select("p.conversation_id, u.id, u.username").
		Joins("JOIN users AS u ON u.id = p.user_id").
		Where("p.conversation_id IN ?", conversationIDs).
		Order("p.conversation_id ASC, u.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	result := make(map[uint][]model.UserSummary, len(conversationIDs))
	for _, row := range rows {
		result[row.ConversationID] = append(result[row.ConversationID], model.UserSummary{
			ID:       row.ID,
			Username: row.Username,
		})
	}

	return result, nil
}

func participantsOrEmpty(participants []model.UserSummary) []model.UserSummary {
	if participants == nil {
		return []model.UserSummary{}
	}
	return participants
}
