// Package testutil sets up an in-memory database, seeded hubs and signed in
// requests for handler tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/config"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MemoryDSN is a private in-memory SQLite database with foreign keys
// enforced. It lives as long as its single connection.
const MemoryDSN = "file::memory:?_foreign_keys=on"

func Config() *config.Config {
	return &config.Config{
		HTTPPort:       "0",
		Environment:    "test",
		LogLevel:       "error",
		CORSOrigins:    "*",
		DatabaseDriver: "sqlite",
		DatabaseDSN:    MemoryDSN,
		DBMaxIdleConns: 1,
		DBMaxOpenConns: 1,
		DBLogLevel:     "silent",
		JWTSecret:      strings.Repeat("k", 32),
		TokenTTL:       time.Hour,
		AuthCookie:     "access_token",
		LoginPath:      "/login",
	}
}

// NewDB opens a fresh migrated database and installs it as database.DB.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(Config())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database.DB = db
	return db
}

// SeedUser creates a hub called hubName and a user in it. The password is
// "secret".
func SeedUser(t testing.TB, db *gorm.DB, hubName string, role models.UserRole) *models.User {
	t.Helper()

	hub := models.Hub{Name: hubName}
	require.NoError(t, db.Create(&hub).Error)

	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	user := &models.User{
		HubID:        hub.ID,
		Name:         hubName + " " + string(role),
		Email:        strings.ToLower(strings.ReplaceAll(hubName, " ", "")) + "-" + string(role) + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedProperty(t testing.TB, db *gorm.DB, hubID uuid.UUID, name string, opts ...func(*models.Property)) *models.Property {
	t.Helper()

	p := models.NewProperty(hubID)
	p.Name = name
	p.MonthlyRent = decimal.NewFromInt(1000)
	for _, o := range opts {
		o(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedTenant(t testing.TB, db *gorm.DB, hubID uuid.UUID, name string, opts ...func(*models.Tenant)) *models.Tenant {
	t.Helper()

	tn := models.NewTenant(hubID)
	tn.Name = name
	for _, o := range opts {
		o(tn)
	}
	require.NoError(t, db.Create(tn).Error)
	return tn
}

func SeedLease(t testing.TB, db *gorm.DB, p *models.Property, tn *models.Tenant, start time.Time) *models.Lease {
	t.Helper()

	l := models.NewLease(p.HubID)
	l.PropertyID = p.ID
	l.TenantID = tn.ID
	l.StartDate = start
	l.MonthlyRent = p.MonthlyRent
	require.NoError(t, db.Omit("Property", "Tenant").Create(l).Error)
	return l
}

// Client sends requests to app as a signed in user.
type Client struct {
	t      testing.TB
	app    *fiber.App
	cookie *http.Cookie
	HTMX   bool
	Target string
}

func NewClient(t testing.TB, app *fiber.App, cfg *config.Config, user *models.User) *Client {
	t.Helper()

	c := &Client{t: t, app: app}
	if user != nil {
		token, err := auth.GenerateToken(cfg.JWTSecret, cfg.TokenTTL, user)
		require.NoError(t, err)
		c.cookie = &http.Cookie{Name: cfg.AuthCookie, Value: token}
	}
	return c
}

// Get returns the response and its body.
func (c *Client) Get(target string) (*http.Response, string) {
	c.t.Helper()
	return c.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

// Post submits form as application/x-www-form-urlencoded.
func (c *Client) Post(target string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return c.Do(req)
}

func (c *Client) Do(req *http.Request) (*http.Response, string) {
	c.t.Helper()

	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.HTMX {
		req.Header.Set("HX-Request", "true")
	}
	if c.Target != "" {
		req.Header.Set("HX-Target", c.Target)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}
