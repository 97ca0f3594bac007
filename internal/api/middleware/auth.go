package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/veriface-labs/veriface/internal/auth"
	"github.com/veriface-labs/veriface/internal/domain"
)

const (
	// LocalUserID is the key to retrieve the authenticated user ID from context
	LocalUserID = "user_id"
	// LocalUserName is the key to retrieve the authenticated user name from context
	LocalUserName = "user_name"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccess(tokenString string) (*auth.Claims, error)
}

// Auth creates an authentication middleware using JWT access tokens
func Auth(jwtService TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := jwtService.ValidateAccess(token)
		if err != nil {
			// Expired and malformed tokens get the same answer
			return domain.ErrInvalidToken
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the request context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
