package auth

import (
	"errors"
	"strings"
	"time"

	"propmgmt-backend/internal/config"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/logger"
	"propmgmt-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginView = "auth/login"

var errBadCredentials = errors.New("invalid email or password")

// LoginPageHandler renders the sign in form.
func LoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(loginView, fiber.Map{})
	}
}

// LoginHandler checks the submitted credentials and stores a signed token in
// the auth cookie.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
		password := c.FormValue("password")

		user, err := authenticate(database.DB, email, password)
		if errors.Is(err, errBadCredentials) {
			logger.FromCtx(c).Info("login failed", zap.String("email", email))
			return c.Status(fiber.StatusUnauthorized).Render(loginView, fiber.Map{
				"Error": "Invalid email or password.",
				"Email": email,
			})
		}
		if err != nil {
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.TokenTTL, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		c.Cookie(&fiber.Cookie{
			Name:     cfg.AuthCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TokenTTL),
			HTTPOnly: true,
			Secure:   cfg.Environment == "production",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		logger.FromCtx(c).Info("login", zap.String("user_id", user.ID.String()))
		return c.Redirect("/", fiber.StatusFound)
	}
}

// LogoutHandler clears the auth cookie.
func LogoutHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     cfg.AuthCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
		})
		return c.Redirect(cfg.LoginPath, fiber.StatusFound)
	}
}

func authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, errBadCredentials
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return &user, nil
}

// HashPassword is what create-user stores in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
