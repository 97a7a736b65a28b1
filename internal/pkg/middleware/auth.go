package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NewsFox/app/repository"
	"github.com/ManuelReschke/NewsFox/internal/pkg/security"
	"github.com/ManuelReschke/NewsFox/internal/pkg/usercontext"
)

// RequireAuth authenticates requests carrying a bearer token. The token is
// validated statelessly first; only then is the user row resolved, so a
// forged or expired token never touches the database.
func RequireAuth(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return unauthorized(c, "Missing bearer token")
		}

		claims, err := security.ValidateToken(token, security.MustTokenSecret())
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return unauthorized(c, "Unknown user")
			}
			fiberlog.Errorf("auth middleware: user lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "internal_server_error",
				"message": "User verification failed",
			})
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     user.ID,
			Username:   user.Name,
			IsLoggedIn: true,
		})

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": message,
	})
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
