package service

import (
	"context"

	"agora/internal/listing"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/policy"
	"agora/internal/repository"
	"agora/internal/validation"
)

type TopicService struct {
	topicRepo    repository.TopicRepository
	categoryRepo repository.CategoryRepository
	replyRepo    repository.ReplyRepository
}

type CreateTopicInput struct {
	Title      string
	Body       string
	CategoryID uint
}

// EditTopicInput is the customer-editable subset.
type EditTopicInput struct {
	Title *string
	Body  *string
}

// AdminEditTopicInput extends the editable subset with moderation fields.
type AdminEditTopicInput struct {
	Title      *string
	Body       *string
	CategoryID *uint
	IsLocked   *bool
	IsPrivate  *bool
}

func NewTopicService(topicRepo repository.TopicRepository, categoryRepo repository.CategoryRepository, replyRepo repository.ReplyRepository) *TopicService {
	return &TopicService{topicRepo: topicRepo, categoryRepo: categoryRepo, replyRepo: replyRepo}
}

func (s *TopicService) ListTopics(ctx context.Context, actor *models.User, search string, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	includePrivate := policy.CanView(actor, true)
	return s.topicRepo.List(ctx, search, includePrivate, order, limit, offset)
}

// GetTopic returns the topic with its replies, vote counts and best reply
// attached. Search and order apply to the reply page, not the topic.
func (s *TopicService) GetTopic(ctx context.Context, actor *models.User, id uint, search string, order listing.Order, limit, offset int) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, topic.IsPrivate) {
		return nil, viewDenied(actor)
	}

	replies, err := s.replyRepo.ListByTopic(ctx, id, search, order, limit, offset)
	if err != nil {
		return nil, err
	}
	topic.Replies = replies

	if topic.BestReplyID != nil {
		// The best reply may fall outside the requested page.
		for _, reply := range replies {
			if reply.ID == *topic.BestReplyID {
				topic.BestReply = reply
				break
			}
		}
		if topic.BestReply == nil {
			best, err := s.replyRepo.GetByID(ctx, *topic.BestReplyID)
			if err != nil {
				return nil, err
			}
			topic.BestReply = best
		}
	}

	return topic, nil
}

func (s *TopicService) CreateTopic(ctx context.Context, actor *models.User, in CreateTopicInput) (*models.Topic, error) {
	if !policy.CanCreateContent(actor) {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	if err := validation.ValidateTopicTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateTopicBody(in.Body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, category.IsPrivate) {
		return nil, models.NewUnauthorizedError("You do not have access to this category")
	}

	topic := &models.Topic{
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
		UserID:     actor.ID,
		// A topic born into a private category is private from the start.
		IsPrivate: category.IsPrivate,
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, err
	}

	observability.RecordContentCreated("topic")
	return topic, nil
}

// EditTopic is the owner's edit path: title and body only.
func (s *TopicService) EditTopic(ctx context.Context, actor *models.User, id uint, in EditTopicInput) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, topic.UserID, true) {
		return nil, models.NewUnauthorizedError("You can only edit your own topics")
	}
	if topic.IsLocked && !policy.CanMutate(actor, 0, false) {
		return nil, models.NewLockedError("Topic is locked")
	}

	if in.Title != nil {
		if err := validation.ValidateTopicTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		topic.Title = *in.Title
	}
	if in.Body != nil {
		if err := validation.ValidateTopicBody(*in.Body); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		topic.Body = *in.Body
	}

	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// AdminEditTopic also moves topics between categories and flips the lock
// and privacy flags.
func (s *TopicService) AdminEditTopic(ctx context.Context, actor *models.User, id uint, in AdminEditTopicInput) (*models.Topic, error) {
	if !policy.CanMutate(actor, 0, false) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}

	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := validation.ValidateTopicTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		topic.Title = *in.Title
	}
	if in.Body != nil {
		if err := validation.ValidateTopicBody(*in.Body); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		topic.Body = *in.Body
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		topic.CategoryID = *in.CategoryID
	}
	if in.IsLocked != nil {
		topic.IsLocked = *in.IsLocked
	}
	if in.IsPrivate != nil {
		topic.IsPrivate = *in.IsPrivate
	}

	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// AssignBestReply marks a reply as the topic's best answer. Topic owner
// only; admins do not bypass ownership here.
func (s *TopicService) AssignBestReply(ctx context.Context, actor *models.User, topicID, replyID uint) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !policy.IsOwner(actor, topic.UserID) {
		return nil, models.NewUnauthorizedError("Only the topic owner can pick the best reply")
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.TopicID != topicID {
		return nil, models.NewValidationError("Reply does not belong to this topic")
	}

	topic.BestReplyID = &reply.ID
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, err
	}
	topic.BestReply = reply
	return topic, nil
}

// RemoveBestReply clears the best-answer marker. Topic owner only.
func (s *TopicService) RemoveBestReply(ctx context.Context, actor *models.User, topicID uint) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !policy.IsOwner(actor, topic.UserID) {
		return nil, models.NewUnauthorizedError("Only the topic owner can pick the best reply")
	}

	topic.BestReplyID = nil
	topic.BestReply = nil
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) DeleteTopic(ctx context.Context, actor *models.User, id uint) error {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, topic.UserID, true) {
		return models.NewUnauthorizedError("You can only delete your own topics")
	}
	return s.topicRepo.Delete(ctx, id)
}
