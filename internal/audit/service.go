// Package audit records who changed which record, with before and after
// snapshots.
package audit

import (
	"encoding/json"
	"fmt"

	"propmgmt-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const descriptionLen = 255

type LogOptions struct {
	HubID       uuid.UUID
	UserID      uuid.UUID
	UserName    string
	EntityType  string
	EntityID    uuid.UUID
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(db *gorm.DB, opts LogOptions) error {
	// jsonb rejects an empty string, "null" is valid JSON
	log := models.AuditLog{
		HubID:       opts.HubID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: clip(opts.Description),
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}

	if err := db.Create(&log).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// clip keeps a description within its column.
func clip(s string) string {
	r := []rune(s)
	if len(r) <= descriptionLen {
		return s
	}
	return string(r[:descriptionLen])
}

func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
