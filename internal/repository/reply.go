package repository

import (
	"context"
	"errors"

	"agora/internal/listing"
	"agora/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByTopic(ctx context.Context, topicID uint, search string, order listing.Order, limit, offset int) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	// Delete removes the reply and its votes in one transaction.
	Delete(ctx context.Context, id uint) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// applyVoteCounts adds subqueries computing the up and down counts in the
// same query, so a listed reply never carries stale tallies.
func (r *replyRepository) applyVoteCounts(db *gorm.DB) *gorm.DB {
	return db.Select("replies.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.reply_id = replies.id AND votes.value = 1) as upvotes, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.reply_id = replies.id AND votes.value = -1) as downvotes")
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.applyVoteCounts(r.db.WithContext(ctx).Model(&models.Reply{})).
		Where("replies.id = ?", id).
		First(&reply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &reply, nil
}

// replyOrderColumn whitelists sortable reply attributes. The vote columns
// refer to the aliases applyVoteCounts computes.
func replyOrderColumn(by string) string {
	switch by {
	case "upvotes":
		return "upvotes"
	case "downvotes":
		return "downvotes"
	case "created_at", "":
		return "created_at"
	default:
		return "created_at"
	}
}

func (r *replyRepository) ListByTopic(ctx context.Context, topicID uint, search string, order listing.Order, limit, offset int) ([]*models.Reply, error) {
	var replies []*models.Reply
	query := r.applyVoteCounts(r.db.WithContext(ctx).Model(&models.Reply{})).
		Where("topic_id = ?", topicID)
	if search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}
	err := query.
		Order(replyOrderColumn(order.By) + " " + direction).
		Limit(limit).
		Offset(offset).
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return replies, nil
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Save(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		// A topic pointing at this reply as its best answer loses the marker.
		if err := tx.Model(&models.Topic{}).
			Where("best_reply_id = ?", id).
			Update("best_reply_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Reply{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Reply", id)
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
	return nil
}
