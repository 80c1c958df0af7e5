package auth

import (
	"strings"

	"propmgmt-backend/internal/config"
	"propmgmt-backend/internal/logger"
	"propmgmt-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserRoleKey = "user_role"
	CtxHubIDKey    = "hub_id"
)

// Authenticate reads the token from the auth cookie, or from a bearer
// Authorization header for API clients. Requests without a valid token are
// redirected to the login page.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(cfg.AuthCookie)
		if tokenStr == "" {
			parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}
		if tokenStr == "" {
			return redirectToLogin(c, cfg)
		}

		claims, err := ParseToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			logger.FromCtx(c).Debug("rejected token", zap.Error(err))
			return redirectToLogin(c, cfg)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxHubIDKey, claims.HubID)

		return c.Next()
	}
}

// ResolveHub makes sure the session carries a hub before any scoped handler
// runs.
func ResolveHub(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if HubID(c) == uuid.Nil {
			return redirectToLogin(c, cfg)
		}
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role missing from session")
		}
		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to do this")
	}
}

// HubID is the caller's hub, uuid.Nil when unauthenticated.
func HubID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxHubIDKey).(uuid.UUID)
	return id
}

// Actor returns the id and display name of the signed in user.
func Actor(c *fiber.Ctx) (uuid.UUID, string) {
	id, _ := c.Locals(CtxUserIDKey).(uuid.UUID)
	name, _ := c.Locals(CtxUserNameKey).(string)
	return id, name
}

func redirectToLogin(c *fiber.Ctx, cfg *config.Config) error {
	if c.Get("HX-Request") == "true" {
		c.Set("HX-Redirect", cfg.LoginPath)
	}
	return c.Redirect(cfg.LoginPath, fiber.StatusFound)
}
