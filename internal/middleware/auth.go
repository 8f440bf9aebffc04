// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strings"

	"agora/internal/models"
	"agora/internal/token"

	"github.com/gofiber/fiber/v2"
)

// UserLoader resolves the account a verified token belongs to. Tokens carry the
// username, not the role, so the role is always read fresh from storage.
type UserLoader func(c *fiber.Ctx, username string) (*models.User, error)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func resolveUser(c *fiber.Ctx, tokens *token.Manager, load UserLoader, raw string) (*models.User, error) {
	claims, err := tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	user, err := load(c, claims.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The account behind a still-valid token may have been deleted.
		return nil, models.NewUnauthenticatedError("account no longer exists")
	}
	return user, nil
}

// AuthRequired enforces authentication for protected routes. On success the
// resolved account is stored in c.Locals("currentUser") and its ID in
// c.Locals("userID").
func AuthRequired(tokens *token.Manager, load UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		user, err := resolveUser(c, tokens, load, raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// OptionalAuth resolves the current user when a valid token is present but
// lets anonymous requests through. Routes serving public listings use this so
// private content visibility can be decided per caller.
func OptionalAuth(tokens *token.Manager, load UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		user, err := resolveUser(c, tokens, load, raw)
		if err != nil {
			// A bad token on an optional route is rejected rather than
			// silently downgraded to anonymous.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// AdminRequired restricts a route to admin accounts. It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("currentUser").(*models.User)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin privileges required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated account placed in locals by
// AuthRequired or OptionalAuth, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}
