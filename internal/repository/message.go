package repository

import (
	"context"
	"errors"

	"agora/internal/cache"
	"agora/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	// Conversation returns the messages exchanged between two users in
	// chronological order, regardless of direction.
	Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]*models.Message, error)
	// Partners returns every user the given user has exchanged at least
	// one message with, in either direction.
	Partners(ctx context.Context, userID uint) ([]models.User, error)
	Update(ctx context.Context, message *models.Message) error
	Delete(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateConversation(ctx, message.SenderID, message.ReceiverID)
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *messageRepository) Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]*models.Message, error) {
	fetch := func(dest *[]*models.Message) error {
		err := r.db.WithContext(ctx).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				userA, userB, userB, userA).
			Order("created_at ASC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var messages []*models.Message
	// The first page is the hot read; deeper history skips the cache.
	if offset == 0 {
		err := cache.Aside(ctx, cache.ConversationKey(userA, userB), &messages, cache.ConversationTTL, func() error {
			return fetch(&messages)
		})
		if err != nil {
			return nil, err
		}
		return messages, nil
	}
	if err := fetch(&messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) Partners(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM users WHERE id IN (
			SELECT receiver_id FROM messages WHERE sender_id = ?
			UNION
			SELECT sender_id FROM messages WHERE receiver_id = ?
		) ORDER BY username`,
		userID, userID,
	).Scan(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *messageRepository) Update(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Save(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateConversation(ctx, message.SenderID, message.ReceiverID)
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	message, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Message{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateConversation(ctx, message.SenderID, message.ReceiverID)
	return nil
}
