package server

import (
	"agora/internal/middleware"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /api/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	page := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	user, err := s.userService.GetUserByID(c.Context(), actor, id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetUserByUsername handles GET /api/users/username/:username
func (s *Server) GetUserByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return models.RespondError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", username))
	}
	return c.JSON(user)
}

// UpdateUserRole handles PUT /api/users/:id/role
func (s *Server) UpdateUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateRole(c.Context(), actor, id, req.Role)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id. Authored content survives the
// account.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	actor := middleware.CurrentUser(c)

	if err := s.userService.DeleteUser(c.Context(), actor, id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
