package audit

import (
	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/logger"
	"propmgmt-backend/internal/metrics"
	"propmgmt-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry describes one mutation.
type Entry struct {
	EntityType  string
	EntityID    uuid.UUID
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Record writes the audit log for a mutation made by the signed in user and
// counts it. A failed audit write is logged, the mutation stands.
func Record(c *fiber.Ctx, e Entry) {
	userID, userName := auth.Actor(c)
	err := WriteLog(database.DB, LogOptions{
		HubID:       auth.HubID(c),
		UserID:      userID,
		UserName:    userName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		Before:      e.Before,
		After:       e.After,
	})
	if err != nil {
		logger.FromCtx(c).Warn("audit log not written",
			zap.String("entity", e.EntityType),
			zap.String("action", string(e.Action)),
			zap.Error(err),
		)
	}
	metrics.RecordMutation(e.EntityType, string(e.Action))
}
