package repository

import (
	"context"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tush00nka/bbbab_chat/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	// FindByID loads a message with its sender identity attached.
	FindByID(ctx context.Context, id uint) (*model.Message, error)
	// ListByConversation returns the conversation timeline ordered by
	// creation time, ties broken by id.
	ListByConversation(ctx context.Context, conversationID uint) ([]model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

type messageRow struct {
	ID             uint
	ConversationID uint
	SenderID       uint
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SenderUsername string
}

func (row messageRow) toModel() model.Message {
	return model.Message{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		SenderID:       row.SenderID,
		Content:        row.Content,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Sender:         model.UserSummary{ID: row.SenderID, Username: row.SenderUsername},
	}
}

func (r *messageRepository) withSender(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("messages").
		Select("messages.id, messages.conversation_id, messages.sender_id, messages.content, " +
			"messages.created_at, messages.updated_at, users.username AS sender_username").
		Joins("JOIN users ON users.id = messages.sender_id")
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error)
}

func (r *messageRepository) FindByID(ctx context.Context, id uint) (*model.Message, error) {
	var rows []messageRow
	if err := r.withSender(ctx).Where("messages.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	msg := rows[0].toModel()
	return &msg, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID uint) ([]model.Message, error) {
	var rows []messageRow
	err := r.withSender(ctx).
		Where("messages.conversation_id = ?", conversationID).
		Order("messages.created_at ASC, messages.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(row messageRow, _ int) model.Message { return row.toModel() }), nil
}
