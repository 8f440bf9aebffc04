package server

import (
	"agora/internal/listing"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListTopics handles GET /api/topics
func (s *Server) ListTopics(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 20)
	search, order := parseListQuery(c, listing.Order{By: "created_at", Desc: true})

	topics, err := s.topicService.ListTopics(c.Context(), actor, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(topics)
}

// GetTopic handles GET /api/topics/:id. The search, sort and sort_by
// parameters narrow and order the attached reply page.
func (s *Server) GetTopic(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 50)
	search, order := parseListQuery(c, listing.Order{By: "created_at"})

	topic, err := s.topicService.GetTopic(c.Context(), actor, id, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(topic)
}

// CreateTopic handles POST /api/categories/:id/topics
func (s *Server) CreateTopic(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	topic, err := s.topicService.CreateTopic(c.Context(), actor, service.CreateTopicInput{
		Title:      req.Title,
		Body:       req.Body,
		CategoryID: categoryID,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// UpdateTopic handles PUT /api/topics/:id. Owners edit title and body;
// admins also move, lock and hide the topic.
func (s *Server) UpdateTopic(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Title      *string `json:"title"`
		Body       *string `json:"body"`
		CategoryID *uint   `json:"category_id"`
		IsLocked   *bool   `json:"is_locked"`
		IsPrivate  *bool   `json:"is_private"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var topic *models.Topic
	var svcErr error
	if actor != nil && actor.IsAdmin() {
		topic, svcErr = s.topicService.AdminEditTopic(c.Context(), actor, id, service.AdminEditTopicInput{
			Title:      req.Title,
			Body:       req.Body,
			CategoryID: req.CategoryID,
			IsLocked:   req.IsLocked,
			IsPrivate:  req.IsPrivate,
		})
	} else {
		topic, svcErr = s.topicService.EditTopic(c.Context(), actor, id, service.EditTopicInput{
			Title: req.Title,
			Body:  req.Body,
		})
	}
	if svcErr != nil {
		return models.RespondError(c, svcErr)
	}
	return c.JSON(topic)
}

// DeleteTopic handles DELETE /api/topics/:id
func (s *Server) DeleteTopic(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	if err := s.topicService.DeleteTopic(c.Context(), actor, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Topic deleted"})
}

// AssignBestReply handles PUT /api/topics/:id/best-reply
func (s *Server) AssignBestReply(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		ReplyID uint `json:"reply_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ReplyID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("reply_id is required"))
	}

	topic, err := s.topicService.AssignBestReply(c.Context(), actor, topicID, req.ReplyID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(topic)
}

// RemoveBestReply handles DELETE /api/topics/:id/best-reply
func (s *Server) RemoveBestReply(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	topic, err := s.topicService.RemoveBestReply(c.Context(), actor, topicID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(topic)
}
