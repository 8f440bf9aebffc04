package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/policy"
	"agora/internal/repository"
)

// Vote actions accepted at the API boundary.
const (
	VoteActionUp    = "up"
	VoteActionDown  = "down"
	VoteActionClear = "clear"
)

type VoteService struct {
	voteRepo  repository.VoteRepository
	replyRepo repository.ReplyRepository
	topicRepo repository.TopicRepository
}

func NewVoteService(voteRepo repository.VoteRepository, replyRepo repository.ReplyRepository, topicRepo repository.TopicRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, replyRepo: replyRepo, topicRepo: topicRepo}
}

// Vote applies one transition of the per-(reply,user) state machine and
// returns the reply with fresh counts. Repeating the current vote is a
// Conflict; switching direction updates the single stored row; clear
// removes it and is a no-op when absent.
func (s *VoteService) Vote(ctx context.Context, actor *models.User, replyID uint, action string) (*models.Reply, error) {
	if !policy.CanCreateContent(actor) {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	topic, err := s.topicRepo.GetByID(ctx, reply.TopicID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, topic.IsPrivate) {
		return nil, viewDenied(actor)
	}

	switch action {
	case VoteActionClear:
		if err := s.clear(ctx, actor.ID, replyID); err != nil {
			return nil, err
		}
	case VoteActionUp, VoteActionDown:
		value := models.VoteUp
		if action == VoteActionDown {
			value = models.VoteDown
		}
		if err := s.cast(ctx, actor.ID, replyID, value); err != nil {
			return nil, err
		}
	default:
		return nil, models.NewValidationError("Vote must be up, down or clear")
	}

	return s.replyRepo.GetByID(ctx, replyID)
}

func (s *VoteService) cast(ctx context.Context, userID, replyID uint, value int) error {
	current, err := s.voteRepo.Get(ctx, replyID, userID)
	if err != nil {
		return err
	}

	if current == nil {
		inserted, err := s.voteRepo.Insert(ctx, &models.Vote{ReplyID: replyID, UserID: userID, Value: value})
		if err != nil {
			return err
		}
		if inserted {
			observability.RecordVote(voteOutcome(value))
			return nil
		}
		// A concurrent request inserted first; re-read and fall through
		// to the compare path.
		current, err = s.voteRepo.Get(ctx, replyID, userID)
		if err != nil {
			return err
		}
		if current == nil {
			// The racing vote vanished in between; one retry of the insert.
			if _, err := s.voteRepo.Insert(ctx, &models.Vote{ReplyID: replyID, UserID: userID, Value: value}); err != nil {
				return err
			}
			observability.RecordVote(voteOutcome(value))
			return nil
		}
	}

	if current.Value == value {
		return models.NewConflictError("You have already voted on this reply")
	}

	if err := s.voteRepo.UpdateValue(ctx, replyID, userID, value); err != nil {
		return err
	}
	observability.RecordVote("switch")
	return nil
}

func (s *VoteService) clear(ctx context.Context, userID, replyID uint) error {
	current, err := s.voteRepo.Get(ctx, replyID, userID)
	if err != nil {
		return err
	}
	if current == nil {
		// Clearing an absent vote is not an error.
		return nil
	}
	if err := s.voteRepo.Delete(ctx, replyID, userID); err != nil {
		return err
	}
	observability.RecordVote("clear")
	return nil
}

func voteOutcome(value int) string {
	if value == models.VoteUp {
		return "up"
	}
	return "down"
}
