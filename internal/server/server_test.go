package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"propmgmt-backend/internal/audit"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/server"
	"propmgmt-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCounts(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	user := testutil.SeedUser(t, db, "Hub A", models.RoleStaff)
	other := testutil.SeedUser(t, db, "Hub B", models.RoleStaff)

	p := testutil.SeedProperty(t, db, user.HubID, "One")
	testutil.SeedProperty(t, db, user.HubID, "Two")
	testutil.SeedProperty(t, db, user.HubID, "Gone", func(p *models.Property) {
		now := time.Now()
		p.IsDeleted = true
		p.DeletedAt = &now
	})
	testutil.SeedProperty(t, db, other.HubID, "Elsewhere")
	tn := testutil.SeedTenant(t, db, user.HubID, "Renter")
	testutil.SeedLease(t, db, p, tn, time.Now())
	expired := testutil.SeedLease(t, db, p, tn, time.Now().AddDate(-2, 0, 0))
	require.NoError(t, db.Model(expired).Update("status", models.LeaseExpired).Error)

	client := testutil.NewClient(t, server.New(cfg), cfg, user)
	client.HTMX = true
	resp, body := client.Get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body = squash(body)
	assert.Contains(t, body, `id="stat-properties"><spanclass="stat-label">Properties</span><spanclass="stat-value">2</span>`)
	assert.Contains(t, body, `id="stat-tenants"><spanclass="stat-label">Tenants</span><spanclass="stat-value">1</span>`)
	assert.Contains(t, body, `id="stat-leases"><spanclass="stat-label">Activeleases</span><spanclass="stat-value">1</span>`)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestNavigationHighlight(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	user := testutil.SeedUser(t, db, "Hub A", models.RoleStaff)
	client := testutil.NewClient(t, server.New(cfg), cfg, user)

	_, body := client.Get("/tenants/")
	assert.Contains(t, body, `<li class="active"><a href="/tenants/">Tenants</a></li>`)
	assert.Contains(t, body, `<li class=""><a href="/properties/">Properties</a></li>`)
	assert.Contains(t, body, user.Name)
}

func TestSettingsRequiresAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	app := server.New(cfg)
	admin := testutil.SeedUser(t, db, "Hub A", models.RoleAdmin)
	staff := testutil.SeedUser(t, db, "Hub B", models.RoleStaff)

	resp, body := testutil.NewClient(t, app, cfg, admin).Get("/settings/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Settings")

	resp, _ = testutil.NewClient(t, app, cfg, staff).Get("/settings/")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.NewClient(t, app, cfg, nil).Get("/settings/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestUnauthenticatedListRoutesRedirect(t *testing.T) {
	testutil.NewDB(t)
	cfg := testutil.Config()
	anon := testutil.NewClient(t, server.New(cfg), cfg, nil)

	for _, path := range []string{"/", "/properties/", "/tenants/", "/leases/", "/leases/?export=csv"} {
		resp, _ := anon.Get(path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, cfg.LoginPath, resp.Header.Get(fiber.HeaderLocation), path)
	}

	req := httptest.NewRequest(http.MethodGet, "/properties/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.AuthCookie, Value: "garbage"})
	resp, _ := anon.Do(req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginFlow(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	app := server.New(cfg)
	user := testutil.SeedUser(t, db, "Hub A", models.RoleAdmin)
	anon := testutil.NewClient(t, app, cfg, nil)

	resp, body := anon.Get("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="password"`)

	resp, body = anon.Post("/login", url.Values{"email": {user.Email}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid email or password.")

	resp, _ = anon.Post("/login", url.Values{"email": {strings.ToUpper(user.Email)}, "password": {"secret"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cfg.AuthCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/properties/", nil)
	req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
	resp, _ = anon.Do(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = anon.Post("/logout", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, cfg.LoginPath, resp.Header.Get(fiber.HeaderLocation))
}

func TestHealthAndMetrics(t *testing.T) {
	testutil.NewDB(t)
	cfg := testutil.Config()
	anon := testutil.NewClient(t, server.New(cfg), cfg, nil)

	resp, body := anon.Get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = anon.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
}

func TestMutationMetricsAndAuditLogEndpoint(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	app := server.New(cfg)
	admin := testutil.SeedUser(t, db, "Hub A", models.RoleAdmin)
	client := testutil.NewClient(t, app, cfg, admin)

	resp, _ := client.Post("/properties/add/", url.Values{"name": {"Counted"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := client.Get("/metrics")
	assert.Contains(t, body, `records_mutated_total{action="create",entity="property"}`)

	resp, body = client.Get("/audit-logs/?entity_type=property")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []audit.LogResponse
	require.NoError(t, json.Unmarshal([]byte(body), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
	assert.Equal(t, admin.Name, logs[0].UserName)
	assert.Equal(t, "Property created: Counted", logs[0].Description)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: server.ErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "property not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })

	client := testutil.NewClient(t, app, testutil.Config(), nil)

	resp, body := client.Get("/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"property not found"}`, body)

	resp, body = client.Get("/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)
}
