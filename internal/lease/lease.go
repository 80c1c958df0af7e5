// Package lease serves the lease list, its exports and the lease mutations.
// A lease always points at a live property and tenant of the same hub.
package lease

import (
	"errors"
	"time"

	"propmgmt-backend/internal/export"
	"propmgmt-backend/internal/form"
	"propmgmt-backend/internal/listing"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	entity        = "lease"
	table         = "property_mgmt_lease"
	propertyTable = "property_mgmt_property"
	tenantTable   = "property_mgmt_tenant"
	basePath      = "/leases/"

	contentView = "leases/content"
	listView    = "leases/list"
	formView    = "leases/form"
)

var Spec = listing.Spec{
	Table:         table,
	SearchColumns: []string{table + ".status"},
	SearchExprs: []string{
		table + ".property_id IN (SELECT id FROM " + propertyTable + " WHERE " + listing.LikeExpr("name") + ")",
		table + ".tenant_id IN (SELECT id FROM " + tenantTable + " WHERE " + listing.LikeExpr("name") + ")",
	},
	SortColumns: map[string]string{
		"start_date":   table + ".start_date",
		"end_date":     table + ".end_date",
		"monthly_rent": table + ".monthly_rent",
		"deposit":      table + ".deposit",
		"status":       table + ".status",
		"created_at":   table + ".created_at",
	},
	DefaultSort: "start_date",
}

var ExportTable = export.Table{
	Fields:   []string{"property", "tenant", "start_date", "end_date", "monthly_rent", "deposit", "status"},
	Headers:  []string{"Property", "Tenant", "Start Date", "End Date", "Monthly Rent", "Deposit", "Status"},
	Filename: "leases",
}

// Leases are never toggled; delete is the only bulk action.
const ActionDelete = "delete"

var BulkActions = []string{ActionDelete}

var preload = []string{"Property", "Tenant"}

// Today is the default start date, at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bind resolves the submitted property and tenant within hubID and copies
// the remaining values onto l. A property or tenant that is not a live row
// of the hub is a 404.
func Bind(db *gorm.DB, hubID uuid.UUID, v form.Values, l *models.Lease) error {
	prop, err := store.FindLive[models.Property](db, hubID, v.FormValue("property_id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "property not found")
	}
	if err != nil {
		return err
	}
	tenant, err := store.FindLive[models.Tenant](db, hubID, v.FormValue("tenant_id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "tenant not found")
	}
	if err != nil {
		return err
	}

	l.PropertyID = prop.ID
	l.Property = *prop
	l.TenantID = tenant.ID
	l.Tenant = *tenant

	if start, ok := form.Date(v, "start_date"); ok {
		l.StartDate = start
	} else {
		l.StartDate = Today()
	}
	if end, ok := form.Date(v, "end_date"); ok {
		l.EndDate = &end
	} else {
		l.EndDate = nil
	}

	if rent, ok := form.DecimalOK(v, "monthly_rent", form.Money); ok {
		l.MonthlyRent = rent
	} else {
		l.MonthlyRent = prop.MonthlyRent
	}
	l.Deposit = form.Decimal(v, "deposit", form.Money)

	status := models.LeaseStatus(form.Text(v, "status"))
	if !status.Valid() {
		status = models.LeaseActive
	}
	l.Status = status
	return nil
}
