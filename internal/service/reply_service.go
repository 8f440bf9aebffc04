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

type ReplyService struct {
	replyRepo repository.ReplyRepository
	topicRepo repository.TopicRepository
}

type CreateReplyInput struct {
	TopicID uint
	Content string
}

func NewReplyService(replyRepo repository.ReplyRepository, topicRepo repository.TopicRepository) *ReplyService {
	return &ReplyService{replyRepo: replyRepo, topicRepo: topicRepo}
}

// visibleTopic fetches the topic and applies the privacy rules for actor.
func (s *ReplyService) visibleTopic(ctx context.Context, actor *models.User, topicID uint) (*models.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, topic.IsPrivate) {
		return nil, viewDenied(actor)
	}
	return topic, nil
}

func (s *ReplyService) CreateReply(ctx context.Context, actor *models.User, in CreateReplyInput) (*models.Reply, error) {
	if !policy.CanCreateContent(actor) {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	topic, err := s.visibleTopic(ctx, actor, in.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked {
		return nil, models.NewLockedError("Topic is locked")
	}

	if err := validation.ValidateReplyContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	reply := &models.Reply{
		Content: in.Content,
		TopicID: in.TopicID,
		UserID:  actor.ID,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	observability.RecordContentCreated("reply")
	return reply, nil
}

func (s *ReplyService) ListReplies(ctx context.Context, actor *models.User, topicID uint, search string, order listing.Order, limit, offset int) ([]*models.Reply, error) {
	if _, err := s.visibleTopic(ctx, actor, topicID); err != nil {
		return nil, err
	}
	return s.replyRepo.ListByTopic(ctx, topicID, search, order, limit, offset)
}

// GetReplyInTopic fetches a single reply addressed through its topic. A
// reply reached through the wrong topic id is NotFound, not a leak.
func (s *ReplyService) GetReplyInTopic(ctx context.Context, actor *models.User, topicID, replyID uint) (*models.Reply, error) {
	if _, err := s.visibleTopic(ctx, actor, topicID); err != nil {
		return nil, err
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.TopicID != topicID {
		return nil, models.NewNotFoundError("Reply", replyID)
	}
	return reply, nil
}

func (s *ReplyService) GetReply(ctx context.Context, actor *models.User, id uint) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleTopic(ctx, actor, reply.TopicID); err != nil {
		return nil, err
	}
	return reply, nil
}

// EditReply replaces the content. Owner or admin.
func (s *ReplyService) EditReply(ctx context.Context, actor *models.User, id uint, content string) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutate(actor, reply.UserID, true) {
		return nil, models.NewUnauthorizedError("You can only edit your own replies")
	}

	topic, err := s.topicRepo.GetByID(ctx, reply.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked && !policy.CanMutate(actor, 0, false) {
		return nil, models.NewLockedError("Topic is locked")
	}

	if err := validation.ValidateReplyContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	reply.Content = content
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ReplyService) DeleteReply(ctx context.Context, actor *models.User, id uint) error {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, reply.UserID, true) {
		return models.NewUnauthorizedError("You can only delete your own replies")
	}
	return s.replyRepo.Delete(ctx, id)
}
