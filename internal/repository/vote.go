package repository

import (
	"context"
	"errors"

	"agora/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for votes. The votes table
// has a composite primary key on (reply_id, user_id), so the store itself
// rejects a second vote for the same pair; Insert surfaces that as a
// zero-row write instead of an error.
type VoteRepository interface {
	Get(ctx context.Context, replyID, userID uint) (*models.Vote, error)
	// Insert writes a new vote. Returns false without error when a vote
	// for the pair already exists (a concurrent writer won the race).
	Insert(ctx context.Context, vote *models.Vote) (bool, error)
	UpdateValue(ctx context.Context, replyID, userID uint, value int) error
	Delete(ctx context.Context, replyID, userID uint) error
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Get(ctx context.Context, replyID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("reply_id = ? AND user_id = ?", replyID, userID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

func (r *voteRepository) Insert(ctx context.Context, vote *models.Vote) (bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING is atomic under concurrent voters;
	// the loser of a race sees zero rows affected rather than an error.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (reply_id, user_id, value, created_at, updated_at)
		 VALUES (?, ?, ?, NOW(), NOW())
		 ON CONFLICT (reply_id, user_id) DO NOTHING`,
		vote.ReplyID, vote.UserID, vote.Value,
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *voteRepository) UpdateValue(ctx context.Context, replyID, userID uint, value int) error {
	res := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("reply_id = ? AND user_id = ?", replyID, userID).
		Update("value", value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Vote", replyID)
	}
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, replyID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("reply_id = ? AND user_id = ?", replyID, userID).
		Delete(&models.Vote{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
