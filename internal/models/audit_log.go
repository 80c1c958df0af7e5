package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionToggle AuditAction = "toggle"
	AuditActionBulk   AuditAction = "bulk"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	HubID uuid.UUID `gorm:"type:uuid;index;not null" json:"hub_id"`

	UserID   uuid.UUID `gorm:"type:uuid" json:"user_id"`
	UserName string    `gorm:"size:100" json:"user_name"`

	// property, tenant, lease
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	// Nil for bulk actions; the affected ids are in AfterData.
	EntityID uuid.UUID `gorm:"type:uuid;index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`

	IsUndone bool       `gorm:"not null;default:false" json:"is_undone"`
	UndoneBy *uuid.UUID `gorm:"type:uuid" json:"undone_by"`
	UndoneAt *time.Time `json:"undone_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
