package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/policy"
	"agora/internal/repository"
	"agora/internal/validation"
)

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

type SendMessageInput struct {
	ReceiverID uint
	Content    string
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

func (s *MessageService) SendMessage(ctx context.Context, actor *models.User, in SendMessageInput) (*models.Message, error) {
	if !policy.CanCreateContent(actor) {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	if in.ReceiverID == actor.ID {
		return nil, models.NewValidationError("You cannot message yourself")
	}
	if err := validation.ValidateMessageContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		Content:    in.Content,
		SenderID:   actor.ID,
		ReceiverID: in.ReceiverID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	observability.RecordContentCreated("message")
	return message, nil
}

// GetConversation returns the chronological exchange between the actor and
// another user.
func (s *MessageService) GetConversation(ctx context.Context, actor *models.User, otherID uint, limit, offset int) ([]*models.Message, error) {
	if actor == nil {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	if otherID == actor.ID {
		return nil, models.NewValidationError("You cannot message yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}
	return s.messageRepo.Conversation(ctx, actor.ID, otherID, limit, offset)
}

// ListPartners returns every user the actor has a conversation with.
func (s *MessageService) ListPartners(ctx context.Context, actor *models.User) ([]models.User, error) {
	if actor == nil {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}
	return s.messageRepo.Partners(ctx, actor.ID)
}

// EditMessage replaces the content. Sender only; admins do not bypass.
func (s *MessageService) EditMessage(ctx context.Context, actor *models.User, id uint, content string) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.IsOwner(actor, message.SenderID) {
		return nil, models.NewUnauthorizedError("You can only edit your own messages")
	}
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	message.Content = content
	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// DeleteMessage removes a message. Sender only; admins do not bypass.
func (s *MessageService) DeleteMessage(ctx context.Context, actor *models.User, id uint) error {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.IsOwner(actor, message.SenderID) {
		return models.NewUnauthorizedError("You can only delete your own messages")
	}
	return s.messageRepo.Delete(ctx, id)
}
