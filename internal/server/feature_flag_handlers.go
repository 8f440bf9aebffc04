package server

import (
	"agora/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and evaluated state for the current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	var userID uint
	if actor := middleware.CurrentUser(c); actor != nil {
		userID = actor.ID
	}

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
