package lease

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
	"gorm.io/gorm/clause"
)

func findLease(c *fiber.Ctx) (*models.Lease, error) {
	l, err := store.FindLive[models.Lease](database.DB, auth.HubID(c), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "lease not found")
	}
	return l, err
}

func listPage(hubID uuid.UUID, p listing.Params) (*listing.Page[*models.Lease], error) {
	q := Spec.Filter(store.Live[models.Lease](database.DB, hubID), p)
	return listing.Paginate[*models.Lease](q, Spec, p, preload...)
}

func listData(p listing.Params, page *listing.Page[*models.Lease]) fiber.Map {
	return web.ListData("Leases", basePath, p, page, BulkActions)
}

func renderDefaultList(c *fiber.Ctx) error {
	p := Spec.Defaults()
	page, err := listPage(auth.HubID(c), p)
	if err != nil {
		return err
	}
	return web.Partial(c, listView, listData(p, page))
}

func renderForm(c *fiber.Ctx, l *models.Lease, action string, isNew bool) error {
	hubID := auth.HubID(c)

	var properties []models.Property
	if err := store.Live[models.Property](database.DB, hubID).Order(propertyTable + ".name").Find(&properties).Error; err != nil {
		return err
	}
	var tenants []models.Tenant
	if err := store.Live[models.Tenant](database.DB, hubID).Order(tenantTable + ".name").Find(&tenants).Error; err != nil {
		return err
	}

	title := "Edit lease"
	if isNew {
		title = "Add lease"
	}
	return web.Render(c, formView, fiber.Map{
		"Title":      title,
		"Obj":        l,
		"IsNew":      isNew,
		"Action":     action,
		"Properties": properties,
		"Tenants":    tenants,
		"Statuses":   models.LeaseStatuses,
	})
}

// GET /leases/?q=&sort=&dir=&page=&per_page=&view=&export=
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hubID := auth.HubID(c)
		p := Spec.Parse(c)

		if format := c.Query("export"); export.Requested(format) {
			q := Spec.Filter(store.Live[models.Lease](database.DB, hubID), p)
			rows, err := listing.All[*models.Lease](q, Spec, p, preload...)
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

// GET /leases/add/
func AddFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := models.NewLease(auth.HubID(c))
		l.StartDate = Today()
		return renderForm(c, l, basePath+"add/", true)
	}
}

// POST /leases/add/  property_id, tenant_id, start_date, end_date, monthly_rent, deposit, status
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hubID := auth.HubID(c)
		l := models.NewLease(hubID)
		if err := Bind(database.DB, hubID, c, l); err != nil {
			return err
		}

		if err := database.DB.Omit(clause.Associations).Create(l).Error; err != nil {
			return fmt.Errorf("create lease: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    l.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lease created: %s / %s", l.Property.Name, l.Tenant.Name),
			After:       l,
		})
		return renderDefaultList(c)
	}
}

// GET /leases/:id/edit/
func EditFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := findLease(c)
		if err != nil {
			return err
		}
		return renderForm(c, l, basePath+l.ID.String()+"/edit/", false)
	}
}

// POST /leases/:id/edit/
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := findLease(c)
		if err != nil {
			return err
		}
		before := *l

		hubID := auth.HubID(c)
		if err := Bind(database.DB, hubID, c, l); err != nil {
			return err
		}
		if err := database.DB.Omit(clause.Associations).Save(l).Error; err != nil {
			return fmt.Errorf("update lease: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    l.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lease updated: %s / %s", l.Property.Name, l.Tenant.Name),
			Before:      before,
			After:       l,
		})
		return renderDefaultList(c)
	}
}

// POST /leases/:id/delete/
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := findLease(c)
		if err != nil {
			return err
		}

		before := *l
		if err := store.SoftDelete(database.DB, l, time.Now()); err != nil {
			return fmt.Errorf("delete lease: %w", err)
		}

		audit.Record(c, audit.Entry{
			EntityType:  entity,
			EntityID:    l.ID,
			Action:      models.AuditActionDelete,
			Description: "Lease deleted: " + l.ID.String(),
			Before:      before,
			After:       l,
		})
		return renderDefaultList(c)
	}
}

// POST /leases/bulk/  ids=<uuid,uuid,...>&action=delete
func BulkHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids := store.ParseIDs(c.FormValue("ids"))
		action := c.FormValue("action")

		if action != ActionDelete {
			return renderDefaultList(c)
		}

		changed, err := store.Differing[models.Lease](database.DB, auth.HubID(c), ids, "is_deleted", true)
		if err != nil {
			return err
		}
		if len(changed) > 0 {
			values := map[string]any{"is_deleted": true, "deleted_at": time.Now()}
			n, err := store.BulkUpdate[models.Lease](database.DB, auth.HubID(c), changed, values)
			if err != nil {
				return err
			}
			audit.Record(c, audit.Entry{
				EntityType:  entity,
				Action:      models.AuditActionBulk,
				Description: fmt.Sprintf("Bulk %s on %d leases", action, n),
				After:       fiber.Map{"action": action, "ids": changed, "affected": n},
			})
		}
		return renderDefaultList(c)
	}
}
