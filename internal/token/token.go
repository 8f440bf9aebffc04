// Package token issues and verifies the JWT session tokens used by the API.
// The manager is stateless: verification is a pure function of the token
// and the signing secret, and resolving the embedded identity to a live
// user record is left to the caller.
package token

import (
	"fmt"
	"strconv"
	"time"

	"agora/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTTL = 7 * 24 * time.Hour
	issuer     = "agora-api"
	audience   = "agora-client"
)

// Claims is the identity a verified token carries.
type Claims struct {
	UserID   uint
	Username string
}

// Manager signs and verifies session tokens with an HMAC secret injected
// at construction; there is no module-level secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager returns a Manager signing with secret. A zero ttl falls back
// to the 7-day default.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given user.
func (m *Manager) Issue(user *models.User) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10), // Subject (user ID as string)
		"username": user.Username,                           // Username (resolved on verify)
		"iss":      issuer,
		"aud":      audience,
		"exp":      now.Add(m.ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a token string. Any failure (malformed,
// expired, wrong signature/method/issuer/audience) yields an
// Unauthenticated error.
func (m *Manager) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, models.NewUnauthenticatedError("Invalid or expired token")
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, models.NewUnauthenticatedError("Invalid token claims")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, models.NewUnauthenticatedError("Invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return Claims{}, models.NewUnauthenticatedError("Invalid user ID in token")
	}

	username, ok := mapClaims["username"].(string)
	if !ok || username == "" {
		return Claims{}, models.NewUnauthenticatedError("Invalid token structure - missing username")
	}

	return Claims{UserID: uint(userID), Username: username}, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
