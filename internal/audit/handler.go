package audit

import (
	"errors"
	"strconv"
	"strings"

	"propmgmt-backend/internal/auth"
	"propmgmt-backend/internal/database"
	"propmgmt-backend/internal/metrics"
	"propmgmt-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultLimit = 100

type LogResponse struct {
	ID          uuid.UUID          `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uuid.UUID          `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uuid.UUID          `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uuid.UUID         `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /audit-logs/?entity_type=property&entity_id=...&user_id=...&limit=50
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AuditLog{}).Where("hub_id = ?", auth.HubID(c))

		if entityType := strings.TrimSpace(c.Query("entity_type")); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if id, err := uuid.Parse(c.Query("entity_id")); err == nil {
			dbq = dbq.Where("entity_id = ?", id)
		}
		if id, err := uuid.Parse(c.Query("user_id")); err == nil {
			dbq = dbq.Where("user_id = ?", id)
		}

		limit := defaultLimit
		if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 500 {
			limit = n
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return err
		}

		resp := make([]LogResponse, 0, len(logs))
		for _, l := range logs {
			var undoneAt *string
			if l.UndoneAt != nil {
				formatted := l.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAt = &formatted
			}
			resp = append(resp, LogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				IsUndone:    l.IsUndone,
				UndoneBy:    l.UndoneBy,
				UndoneAt:    undoneAt,
			})
		}
		return c.JSON(resp)
	}
}

// POST /audit-logs/:id/undo  (admin)
func UndoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, ErrLogNotFound.Error())
		}

		userID, userName := auth.Actor(c)
		undo, err := UndoLog(database.DB, auth.HubID(c), logID, userID, userName)
		switch {
		case errors.Is(err, ErrLogNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable), errors.Is(err, ErrEntityGone):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return err
		}

		metrics.RecordMutation(undo.EntityType, string(models.AuditActionUndo))
		return c.JSON(fiber.Map{
			"message": "Change undone",
			"undo_id": undo.ID,
		})
	}
}
