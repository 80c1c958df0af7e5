package lease_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"propmgmt-backend/internal/lease"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/server"
	"propmgmt-backend/internal/store"
	"propmgmt-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db       *gorm.DB
	user     *models.User
	client   *testutil.Client
	property *models.Property
	tenant   *models.Tenant
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	user := testutil.SeedUser(t, db, "Hub A", models.RoleAdmin)
	app := server.New(cfg)
	return &env{
		db:       db,
		user:     user,
		client:   testutil.NewClient(t, app, cfg, user),
		property: testutil.SeedProperty(t, db, user.HubID, "Harbour Loft"),
		tenant:   testutil.SeedTenant(t, db, user.HubID, "Sam Carter"),
	}
}

func (e *env) form(extra map[string]string) url.Values {
	v := url.Values{
		"property_id": {e.property.ID.String()},
		"tenant_id":   {e.tenant.ID.String()},
	}
	for k, val := range extra {
		v.Set(k, val)
	}
	return v
}

func (e *env) onlyLease(t *testing.T) models.Lease {
	t.Helper()
	var leases []models.Lease
	require.NoError(t, store.Live[models.Lease](e.db, e.user.HubID).Find(&leases).Error)
	require.Len(t, leases, 1)
	return leases[0]
}

func TestCreate_Defaults(t *testing.T) {
	e := setup(t)

	resp, body := e.client.Post("/leases/add/", e.form(map[string]string{
		"start_date": "not a date",
		"end_date":   "31/12/2025",
		"status":     "pending",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Harbour Loft")
	assert.Contains(t, body, "Sam Carter")

	l := e.onlyLease(t)
	assert.Equal(t, lease.Today().Format("2006-01-02"), l.StartDate.Format("2006-01-02"))
	assert.Nil(t, l.EndDate)
	assert.Equal(t, models.LeaseActive, l.Status)
	assert.True(t, l.MonthlyRent.Equal(e.property.MonthlyRent), "rent inherited from the property")
	assert.True(t, l.Deposit.IsZero())
	assert.Equal(t, e.user.HubID, l.HubID)
}

func TestCreate_ExplicitValues(t *testing.T) {
	e := setup(t)

	resp, _ := e.client.Post("/leases/add/", e.form(map[string]string{
		"start_date":   "2024-03-01",
		"end_date":     "2025-02-28",
		"monthly_rent": "850.5",
		"deposit":      "1700",
		"status":       "expired",
	}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	l := e.onlyLease(t)
	assert.Equal(t, "2024-03-01", l.StartDate.Format("2006-01-02"))
	require.NotNil(t, l.EndDate)
	assert.Equal(t, "2025-02-28", l.EndDate.Format("2006-01-02"))
	assert.Equal(t, "850.50", l.MonthlyRent.StringFixed(2))
	assert.Equal(t, "1700.00", l.Deposit.StringFixed(2))
	assert.Equal(t, models.LeaseExpired, l.Status)
}

func TestCreate_ForeignHubParents(t *testing.T) {
	e := setup(t)
	other := testutil.SeedUser(t, e.db, "Hub B", models.RoleAdmin)
	foreignProperty := testutil.SeedProperty(t, e.db, other.HubID, "Not Yours")
	foreignTenant := testutil.SeedTenant(t, e.db, other.HubID, "Not Yours Either")

	v := e.form(nil)
	v.Set("property_id", foreignProperty.ID.String())
	resp, _ := e.client.Post("/leases/add/", v)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	v = e.form(nil)
	v.Set("tenant_id", foreignTenant.ID.String())
	resp, _ = e.client.Post("/leases/add/", v)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	v = e.form(nil)
	v.Del("property_id")
	resp, _ = e.client.Post("/leases/add/", v)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, store.SoftDelete(e.db, e.property, time.Now()))
	resp, _ = e.client.Post("/leases/add/", e.form(nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var n int64
	require.NoError(t, e.db.Model(&models.Lease{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdate(t *testing.T) {
	e := setup(t)
	l := testutil.SeedLease(t, e.db, e.property, e.tenant, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	second := testutil.SeedTenant(t, e.db, e.user.HubID, "Alex Kim")

	resp, body := e.client.Get("/leases/" + l.ID.String() + "/edit/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Alex Kim")
	assert.Contains(t, body, `value="2024-01-01"`)

	v := e.form(map[string]string{
		"start_date":   "2024-01-01",
		"monthly_rent": "1100",
		"status":       "terminated",
	})
	v.Set("tenant_id", second.ID.String())
	resp, body = e.client.Post("/leases/"+l.ID.String()+"/edit/", v)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Alex Kim")

	updated := e.onlyLease(t)
	assert.Equal(t, second.ID, updated.TenantID)
	assert.Equal(t, models.LeaseTerminated, updated.Status)
	assert.Equal(t, "1100.00", updated.MonthlyRent.StringFixed(2))

	var tenants int64
	require.NoError(t, e.db.Model(&models.Tenant{}).Count(&tenants).Error)
	assert.Equal(t, int64(2), tenants)
}

func TestListSearchAndSort(t *testing.T) {
	e := setup(t)
	other := testutil.SeedProperty(t, e.db, e.user.HubID, "Garden Cottage", func(p *models.Property) {
		p.MonthlyRent = decimal.NewFromInt(600)
	})
	testutil.SeedLease(t, e.db, e.property, e.tenant, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	testutil.SeedLease(t, e.db, other, e.tenant, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	e.client.HTMX, e.client.Target = true, "datatable-body"

	_, body := e.client.Get("/leases/?q=garden")
	assert.Contains(t, body, "Garden Cottage")
	assert.NotContains(t, body, "Harbour Loft")

	_, body = e.client.Get("/leases/?q=carter")
	assert.Contains(t, body, "Garden Cottage")
	assert.Contains(t, body, "Harbour Loft")

	_, body = e.client.Get("/leases/")
	assert.Less(t, strings.Index(body, "2023-05-01"), strings.Index(body, "2024-05-01"))

	_, body = e.client.Get("/leases/?sort=start_date&dir=desc")
	assert.Less(t, strings.Index(body, "2024-05-01"), strings.Index(body, "2023-05-01"))

	_, def := e.client.Get("/leases/")
	_, bogus := e.client.Get("/leases/?sort=tenant_id")
	assert.Equal(t, def, bogus)
}

func TestExport_CSV(t *testing.T) {
	e := setup(t)
	l := testutil.SeedLease(t, e.db, e.property, e.tenant, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.db.Model(l).Update("end_date", end).Error)

	resp, body := e.client.Get("/leases/?export=csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "leases.csv")

	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Property,Tenant,Start Date,End Date,Monthly Rent,Deposit,Status", strings.TrimSpace(lines[0]))
	assert.Equal(t, "Harbour Loft,Sam Carter,2024-05-01,2025-04-30,1000.00,0.00,active", strings.TrimSpace(lines[1]))
}

func TestDeleteAndBulk(t *testing.T) {
	e := setup(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := testutil.SeedLease(t, e.db, e.property, e.tenant, start)
	b := testutil.SeedLease(t, e.db, e.property, e.tenant, start.AddDate(1, 0, 0))
	c := testutil.SeedLease(t, e.db, e.property, e.tenant, start.AddDate(2, 0, 0))

	resp, _ := e.client.Post("/leases/"+a.ID.String()+"/delete/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var log models.AuditLog
	require.NoError(t, e.db.Where("entity_id = ? AND action = ?", a.ID, models.AuditActionDelete).First(&log).Error)
	var before models.Lease
	require.NoError(t, json.Unmarshal([]byte(log.BeforeData), &before))
	assert.False(t, before.IsDeleted)
	assert.Nil(t, before.DeletedAt)

	resp, _ = e.client.Post("/leases/bulk/", url.Values{"ids": {b.ID.String() + "," + c.ID.String()}, "action": {"deactivate"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	n, err := store.CountLive[models.Lease](e.db, e.user.HubID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	resp, _ = e.client.Post("/leases/bulk/", url.Values{"ids": {b.ID.String()}, "action": {"delete"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, c.ID, e.onlyLease(t).ID)

	resp, _ = e.client.Post("/leases/"+c.ID.String()+"/toggle/", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCascadeOnHardParentDelete(t *testing.T) {
	e := setup(t)
	testutil.SeedLease(t, e.db, e.property, e.tenant, time.Now())

	require.NoError(t, e.db.Delete(&models.Property{}, "id = ?", e.property.ID).Error)

	var n int64
	require.NoError(t, e.db.Model(&models.Lease{}).Count(&n).Error)
	assert.Zero(t, n)
}
