// Package tenant serves the tenant (renter) list, its exports and the tenant
// mutations.
package tenant

import (
	"propmgmt-backend/internal/export"
	"propmgmt-backend/internal/form"
	"propmgmt-backend/internal/listing"
	"propmgmt-backend/internal/models"
)

const (
	entity   = "tenant"
	table    = "property_mgmt_tenant"
	basePath = "/tenants/"

	contentView = "tenants/content"
	listView    = "tenants/list"
	formView    = "tenants/form"
)

var Spec = listing.Spec{
	Table: table,
	SearchColumns: []string{
		table + ".name",
		table + ".email",
		table + ".phone",
		table + ".id_number",
	},
	SortColumns: map[string]string{
		"name":       table + ".name",
		"is_active":  table + ".is_active",
		"email":      table + ".email",
		"phone":      table + ".phone",
		"id_number":  table + ".id_number",
		"created_at": table + ".created_at",
	},
	DefaultSort: "name",
}

var ExportTable = export.Table{
	Fields:   []string{"name", "is_active", "email", "phone", "id_number"},
	Headers:  []string{"Name", "Is Active", "Email", "Phone", "Id Number"},
	Filename: "tenants",
}

const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionDelete     = "delete"
)

var BulkActions = []string{ActionActivate, ActionDeactivate, ActionDelete}

func Bind(v form.Values, t *models.Tenant) {
	t.Name = form.Text(v, "name")
	t.Email = form.Text(v, "email")
	t.Phone = form.Text(v, "phone")
	t.IDNumber = form.Text(v, "id_number")
	t.IsActive = form.Checkbox(v, "is_active")
}
