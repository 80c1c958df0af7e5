package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HubBase carries the columns every hub scoped record shares. Rows are never
// removed through the application, only flagged.
type HubBase struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	HubID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"hub_id"`
	IsDeleted bool       `gorm:"index;not null;default:false" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (b *HubBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
