// Package dashboard serves the module landing page and the settings page.
package dashboard

import (
	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/store"
	"propmgmt-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Stats struct {
	TotalProperties int64
	TotalTenants    int64
	ActiveLeases    int64
}

// Counts returns the live record counts of a hub.
func Counts(db *gorm.DB, hubID uuid.UUID) (Stats, error) {
	var s Stats
	var err error

	if s.TotalProperties, err = store.CountLive[models.Property](db, hubID); err != nil {
		return s, err
	}
	if s.TotalTenants, err = store.CountLive[models.Tenant](db, hubID); err != nil {
		return s, err
	}
	err = store.Live[models.Lease](db, hubID).
		Where("property_mgmt_lease.status = ?", models.LeaseActive).
		Count(&s.ActiveLeases).Error
	return s, err
}

// GET /
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := Counts(database.DB, auth.HubID(c))
		if err != nil {
			return err
		}
		return web.Render(c, "dashboard/content", fiber.Map{
			"Title":           "Dashboard",
			"TotalProperties": stats.TotalProperties,
			"TotalTenants":    stats.TotalTenants,
			"ActiveLeases":    stats.ActiveLeases,
		})
	}
}

// GET /settings/  (admin)
func SettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return web.Render(c, "settings/content", fiber.Map{"Title": "Settings"})
	}
}
