package property

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

func findProperty(c *fiber.Ctx) (*models.Property, error) {
	p, err := store.FindLive[models.Property](database.DB, auth.HubID(c), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "property not found")
	}
	return p, err
}

func listPage(hubID uuid.UUID, p listing.Params) (*listing.Page[*models.Property], error) {
	q := Spec.Filter(store.Live[models.Property](database.DB, hubID), p)
	return listing.Paginate[*models.Property](q, Spec, p)
}

func listData(p listing.Params, page *listing.Page[*models.Property]) fiber.Map {
	return web.ListData("Properties", basePath, p, page, BulkActions)
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

func renderForm(c *fiber.Ctx, p *models.Property, action string, isNew bool) error {
	title := "Edit property"
	if isNew {
		title = "Add property"
	}
	return web.Render(c, formView, fiber.Map{
		"Title":    title,
		"Obj":      p,
		"IsNew":    isNew,
		"Action":   action,
		"Statuses": models.PropertyStatuses,
	})
}

// GET /properties/?q=&sort=&dir=&page=&per_page=&view=&export=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hubID := auth.HubID(c)
		p := Spec.Parse(c)

		if format := c.Query("export"); export.Requested(format) {
			q := Spec.Filter(store.Live[models.Property](database.DB, hubID), p)
			rows, err := listing.All[*models.Property](q, Spec, p)
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

// GET /properties/add/
func AddFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderForm(c, models.NewProperty(auth.HubID(c)), basePath+"add/", true)
	}
}

// POST /properties/add/
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := models.NewProperty(auth.HubID(c))
		Bind(c, p)

		if err := database.DB.Create(p).Error; err != nil {
			return fmt.Errorf("create property: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Property created: " + p.Name,
			After:       p,
		})
		return renderDefaultList(c)
	}
}

// GET /properties/:id/edit/
func EditFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProperty(c)
		if err != nil {
			return err
		}
		return renderForm(c, p, basePath+p.ID.String()+"/edit/", false)
	}
}

// POST /properties/:id/edit/
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProperty(c)
		if err != nil {
			return err
		}
		before := *p

		Bind(c, p)
		if err := database.DB.Save(p).Error; err != nil {
			return fmt.Errorf("update property: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: "Property updated: " + p.Name,
			Before:      before,
			After:       p,
		})
		return renderDefaultList(c)
	}
}

// POST /properties/:id/delete/
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProperty(c)
		if err != nil {
			return err
		}

		before := *p
		if err := store.SoftDelete(database.DB, p, time.Now()); err != nil {
			return fmt.Errorf("delete property: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: "Property deleted: " + p.Name,
			Before:      before,
			After:       p,
		})
		return renderDefaultList(c)
	}
}

// POST /properties/:id/toggle/
func ToggleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProperty(c)
		if err != nil {
			return err
		}

		active := !p.IsActive
		if err := store.SetActive(database.DB, p, active); err != nil {
			return fmt.Errorf("toggle property: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    p.ID,
			Action:      models.AuditActionToggle,
			Description: fmt.Sprintf("Property %s active: %t", p.Name, active),
			Before:      fiber.Map{"is_active": !active},
			After:       fiber.Map{"is_active": active},
		})
		return renderDefaultList(c)
	}
}

// POST /properties/bulk/  ids=<uuid,uuid,...>&action=activate|deactivate|delete
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

		changed, err := store.Differing[models.Property](database.DB, auth.HubID(c), ids, column, values[column])
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			n, err := store.BulkUpdate[models.Property](database.DB, auth.HubID(c), changed, values)
			if err != nil {
				return err
			}
			audit.Record(c, audit.Entry{
				EntityType:  entity,
				Action:      models.AuditActionBulk,
				Description: fmt.Sprintf("Bulk %s on %d properties", action, n),
				After:       fiber.Map{"action": action, "ids": changed, "affected": n},
			})
		}
		return renderDefaultList(c)
	}
}
