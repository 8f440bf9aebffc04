package repository

import (
	"context"
	"errors"

	"agora/internal/cache"
	"agora/internal/listing"
	"agora/internal/models"

	"gorm.io/gorm"
)

// TopicRepository defines persistence operations for topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id uint) (*models.Topic, error)
	List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error)
	ListByCategory(ctx context.Context, categoryID uint, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	// Delete removes the topic with its replies and their votes in one
	// transaction.
	Delete(ctx context.Context, id uint) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if err := r.db.WithContext(ctx).Create(topic).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	err := cache.Aside(ctx, cache.TopicKey(id), &topic, cache.TopicTTL, func() error {
		if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Topic", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// applySort appends the ORDER BY clause for the requested order. Only
// whitelisted columns sort; anything else falls back to creation time.
func (r *topicRepository) applySort(db *gorm.DB, order listing.Order) *gorm.DB {
	column := "created_at"
	if order.By == "title" {
		column = "title"
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}
	return db.Order(column + " " + direction)
}

func (r *topicRepository) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	var topics []*models.Topic
	q := r.db.WithContext(ctx).Model(&models.Topic{})
	if search != "" {
		q = q.Where("title ILIKE ?", "%"+search+"%")
	}
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}
	err := r.applySort(q, order).Limit(limit).Offset(offset).Find(&topics).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return topics, nil
}

func (r *topicRepository) ListByCategory(ctx context.Context, categoryID uint, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	var topics []*models.Topic
	q := r.db.WithContext(ctx).Model(&models.Topic{}).Where("category_id = ?", categoryID)
	if search != "" {
		q = q.Where("title ILIKE ?", "%"+search+"%")
	}
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}
	err := r.applySort(q, order).Limit(limit).Offset(offset).Find(&topics).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return topics, nil
}

func (r *topicRepository) Update(ctx context.Context, topic *models.Topic) error {
	if err := r.db.WithContext(ctx).Save(topic).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTopic(ctx, topic.ID)
	return nil
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM votes WHERE reply_id IN (
				SELECT id FROM replies WHERE topic_id = ?
			)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("topic_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Topic{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Topic", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTopic(ctx, id)
	return nil
}
