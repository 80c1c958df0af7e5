package models

import "github.com/google/uuid"

// Tenant - the renter. Not to be confused with the hub partition.
type Tenant struct {
	HubBase
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:254" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
	IDNumber string `gorm:"size:30" json:"id_number"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (Tenant) TableName() string {
	return "property_mgmt_tenant"
}

func NewTenant(hubID uuid.UUID) *Tenant {
	t := &Tenant{IsActive: true}
	t.HubID = hubID
	return t
}

func (t *Tenant) String() string {
	return t.Name
}

func (t *Tenant) Field(name string) any {
	switch name {
	case "name":
		return t.Name
	case "email":
		return t.Email
	case "phone":
		return t.Phone
	case "id_number":
		return t.IDNumber
	case "is_active":
		return t.IsActive
	case "created_at":
		return t.CreatedAt
	}
	return nil
}
