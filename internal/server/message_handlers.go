package server

import (
	"agora/internal/listing"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListConversationPartners handles GET /api/messages/conversations
func (s *Server) ListConversationPartners(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 50)

	partners, err := s.messageService.ListPartners(c.Context(), actor)
	if err != nil {
		return models.RespondError(c, err)
	}

	// the repo returns the full partner set; order and window it here
	if descending, ok := listing.ParseOrder(c.Query("sort")); ok {
		listing.SortBy(partners, func(a, b models.User) bool {
			return a.Username < b.Username
		}, descending)
	}
	return c.JSON(listing.Paginate(partners, page.Limit, page.Offset))
}

// GetConversation handles GET /api/messages/with/:userId
func (s *Server) GetConversation(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 50)

	messages, err := s.messageService.GetConversation(c.Context(), actor, otherID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(messages)
}

// SendMessage handles POST /api/messages/with/:userId
func (s *Server) SendMessage(c *fiber.Ctx) error {
	receiverID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), actor, service.SendMessageInput{
		ReceiverID: receiverID,
		Content:    req.Content,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// UpdateMessage handles PUT /api/messages/:id
func (s *Server) UpdateMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.EditMessage(c.Context(), actor, id, req.Content)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(message)
}

// DeleteMessage handles DELETE /api/messages/:id
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	if err := s.messageService.DeleteMessage(c.Context(), actor, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}
