package tenant

import (
	"errors"
	"fmt"
	"time"

	"propmgmt-backend/internal/audit"
	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/export"
	"propmgmt-backend/internal/listing"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/store"
	"propmgmt-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func findTenant(c *fiber.Ctx) (*models.Tenant, error) {
	t, err := store.FindLive[models.Tenant](database.DB, auth.HubID(c), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "tenant not found")
	}
	return t, err
}

func listPage(hubID uuid.UUID, p listing.Params) (*listing.Page[*models.Tenant], error) {
	q := Spec.Filter(store.Live[models.Tenant](database.DB, hubID), p)
	return listing.Paginate[*models.Tenant](q, Spec, p)
}

func listData(p listing.Params, page *listing.Page[*models.Tenant]) fiber.Map {
	return web.ListData("Tenants", basePath, p, page, BulkActions)
}

// renderDefaultList answers a mutation with the first page of the unfiltered
// list.
func renderDefaultList(c *fiber.Ctx) error {
	p := Spec.Defaults()
	page, err := listPage(auth.HubID(c), p)
	if err != nil {
		return err
	}
	return web.Partial(c, listView, listData(p, page))
}

func renderForm(c *fiber.Ctx, t *models.Tenant, action string, isNew bool) error {
	title := "Edit tenant"
	if isNew {
		title = "Add tenant"
	}
	return web.Render(c, formView, fiber.Map{
		"Title":  title,
		"Obj":    t,
		"IsNew":  isNew,
		"Action": action,
	})
}

// GET /tenants/?q=&sort=&dir=&page=&per_page=&view=&export=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hubID := auth.HubID(c)
		p := Spec.Parse(c)

		if format := c.Query("export"); export.Requested(format) {
			q := Spec.Filter(store.Live[models.Tenant](database.DB, hubID), p)
			rows, err := listing.All[*models.Tenant](q, Spec, p)
			if err != nil {
				return err
			}
			return export.Send(c, format, ExportTable, rows)
		}

		page, err := listPage(hubID, p)
		if err != nil {
			return err
		}
		return web.RenderList(c, contentView, listView, listData(p, page))
	}
}

// GET /tenants/add/
func AddFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderForm(c, models.NewTenant(auth.HubID(c)), basePath+"add/", true)
	}
}

// POST /tenants/add/
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := models.NewTenant(auth.HubID(c))
		Bind(c, t)

		if err := database.DB.Create(t).Error; err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    t.ID,
			Action:      models.AuditActionCreate,
			Description: "Tenant created: " + t.Name,
			After:       t,
		})
		return renderDefaultList(c)
	}
}

// GET /tenants/:id/edit/
func EditFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := findTenant(c)
		if err != nil {
			return err
		}
		return renderForm(c, t, basePath+t.ID.String()+"/edit/", false)
	}
}

// POST /tenants/:id/edit/
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := findTenant(c)
		if err != nil {
			return err
		}
		before := *t

		Bind(c, t)
		if err := database.DB.Save(t).Error; err != nil {
			return fmt.Errorf("update tenant: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    t.ID,
			Action:      models.AuditActionUpdate,
			Description: "Tenant updated: " + t.Name,
			Before:      before,
			After:       t,
		})
		return renderDefaultList(c)
	}
}

// POST /tenants/:id/delete/
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := findTenant(c)
		if err != nil {
			return err
		}

		before := *t
		if err := store.SoftDelete(database.DB, t, time.Now()); err != nil {
			return fmt.Errorf("delete tenant: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    t.ID,
			Action:      models.AuditActionDelete,
			Description: "Tenant deleted: " + t.Name,
			Before:      before,
			After:       t,
		})
		return renderDefaultList(c)
	}
}

// POST /tenants/:id/toggle/
func ToggleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := findTenant(c)
		if err != nil {
			return err
		}

		active := !t.IsActive
		if err := store.SetActive(database.DB, t, active); err != nil {
			return fmt.Errorf("toggle tenant: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    t.ID,
			Action:      models.AuditActionToggle,
			Description: fmt.Sprintf("Tenant %s active: %t", t.Name, active),
			Before:      fiber.Map{"is_active": !active},
			After:       fiber.Map{"is_active": active},
		})
		return renderDefaultList(c)
	}
}

// POST /tenants/bulk/  ids=<uuid,uuid,...>&action=activate|deactivate|delete
func BulkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := store.ParseIDs(c.FormValue("ids"))
		action := c.FormValue("action")

		var column string
		var values map[string]any
		switch action {
		case ActionActivate:
			column, values = "is_active", map[string]any{"is_active": true}
		case ActionDeactivate:
			column, values = "is_active", map[string]any{"is_active": false}
		case ActionDelete:
			column, values = "is_deleted", map[string]any{"is_deleted": true, "deleted_at": time.Now()}
		}
		if values == nil {
			return renderDefaultList(c)
		}

		changed, err := store.Differing[models.Tenant](database.DB, auth.HubID(c), ids, column, values[column])
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			n, err := store.BulkUpdate[models.Tenant](database.DB, auth.HubID(c), changed, values)
			if err != nil {
				return err
			}
			audit.Record(c, audit.Entry{
				EntityType:  entity,
				Action:      models.AuditActionBulk,
				Description: fmt.Sprintf("Bulk %s on %d tenants", action, n),
				After:       fiber.Map{"action": action, "ids": changed, "affected": n},
			})
		}
		return renderDefaultList(c)
	}
}
