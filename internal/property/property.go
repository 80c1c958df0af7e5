// Package property serves the property list, its exports and the property
// mutations.
package property

import (
	"propmgmt-backend/internal/export"
	"propmgmt-backend/internal/form"
	"propmgmt-backend/internal/listing"
	"propmgmt-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	entity   = "property"
	table    = "property_mgmt_property"
	basePath = "/properties/"

	contentView = "properties/content"
	listView    = "properties/list"
	formView    = "properties/form"
)

var Spec = listing.Spec{
	Table: table,
	SearchColumns: []string{
		table + ".name",
		table + ".address",
		table + ".property_type",
		table + ".status",
	},
	SortColumns: map[string]string{
		"name":         table + ".name",
		"status":       table + ".status",
		"is_active":    table + ".is_active",
		"monthly_rent": table + ".monthly_rent",
		"area_sqm":     table + ".area_sqm",
		"bathrooms":    table + ".bathrooms",
		"created_at":   table + ".created_at",
	},
	DefaultSort: "name",
}

var ExportTable = export.Table{
	Fields:   []string{"name", "status", "is_active", "monthly_rent", "area_sqm", "bathrooms"},
	Headers:  []string{"Name", "Status", "Is Active", "Monthly Rent", "Area Sqm", "Bathrooms"},
	Filename: "properties",
}

// Bulk actions
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionDelete     = "delete"
)

var BulkActions = []string{ActionActivate, ActionDeactivate, ActionDelete}

// Bind copies submitted values onto p. Nothing is rejected: blank or bad
// numbers become zero, an unknown status becomes available.
func Bind(v form.Values, p *models.Property) {
	p.Name = form.Text(v, "name")
	p.Address = form.Text(v, "address")
	p.PropertyType = form.TextOr(v, "property_type", models.DefaultPropertyType)
	p.Bedrooms = form.Uint(v, "bedrooms")
	p.Bathrooms = form.Uint(v, "bathrooms")
	p.AreaSqm = decimal.NewNullDecimal(form.Decimal(v, "area_sqm", form.Area))
	p.MonthlyRent = form.Decimal(v, "monthly_rent", form.Money)

	status := models.PropertyStatus(form.Text(v, "status"))
	if !status.Valid() {
		status = models.PropertyAvailable
	}
	p.Status = status
	p.IsActive = form.Checkbox(v, "is_active")
}
