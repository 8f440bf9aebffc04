package server

import (
	"agora/internal/listing"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListReplies handles GET /api/topics/:id/replies. Supports search on
// content plus sort and sort_by (created_at, upvotes, downvotes).
func (s *Server) ListReplies(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 50)
	search, order := parseListQuery(c, listing.Order{By: "created_at"})

	replies, err := s.replyService.ListReplies(c.Context(), actor, topicID, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(replies)
}

// GetTopicReply handles GET /api/topics/:id/replies/:replyId
func (s *Server) GetTopicReply(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "replyId")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	reply, err := s.replyService.GetReplyInTopic(c.Context(), actor, topicID, replyID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(reply)
}

// GetReply handles GET /api/replies/:id
func (s *Server) GetReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	reply, err := s.replyService.GetReply(c.Context(), actor, id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(reply)
}

// CreateReply handles POST /api/topics/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
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

	reply, err := s.replyService.CreateReply(c.Context(), actor, service.CreateReplyInput{
		TopicID: topicID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// UpdateReply handles PUT /api/replies/:id
func (s *Server) UpdateReply(c *fiber.Ctx) error {
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

	reply, err := s.replyService.EditReply(c.Context(), actor, id, req.Content)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(reply)
}

// DeleteReply handles DELETE /api/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	if err := s.replyService.DeleteReply(c.Context(), actor, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reply deleted"})
}

// VoteOnReply handles POST /api/replies/:id/vote
func (s *Server) VoteOnReply(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Vote string `json:"vote"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.voteService.Vote(c.Context(), actor, id, req.Vote)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(reply)
}
