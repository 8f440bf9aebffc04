package server

import (
	"agora/internal/listing"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListCategories handles GET /api/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 20)
	search, order := parseListQuery(c, listing.Order{By: "name"})

	categories, err := s.categoryService.ListCategories(c.Context(), actor, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id. The search, sort and
// sort_by parameters narrow and order the attached topic page.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 20)
	search, order := parseListQuery(c, listing.Order{By: "created_at", Desc: true})

	category, err := s.categoryService.GetCategory(c.Context(), actor, id, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(category)
}

// ListCategoryTopics handles GET /api/categories/:id/topics
func (s *Server) ListCategoryTopics(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 20)
	search, order := parseListQuery(c, listing.Order{By: "created_at", Desc: true})

	topics, err := s.categoryService.ListCategoryTopics(c.Context(), actor, id, search, order, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(topics)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"is_private"`
		IsLocked    bool   `json:"is_locked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.Context(), actor, service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		IsLocked:    req.IsLocked,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPrivate   *bool   `json:"is_private"`
		IsLocked    *bool   `json:"is_locked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.Context(), actor, id, service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		IsLocked:    req.IsLocked,
	})
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	if err := s.categoryService.DeleteCategory(c.Context(), actor, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
