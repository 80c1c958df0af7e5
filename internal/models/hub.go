package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hub is the tenancy partition. Every business record and user belongs to one.
type Hub struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}

func (h *Hub) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
