package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaseStatus string

const (
	LeaseActive     LeaseStatus = "active"
	LeaseExpired    LeaseStatus = "expired"
	LeaseTerminated LeaseStatus = "terminated"
)

var LeaseStatuses = []LeaseStatus{LeaseActive, LeaseExpired, LeaseTerminated}

func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseActive, LeaseExpired, LeaseTerminated:
		return true
	}
	return false
}

// Lease binds one tenant to one property. Hard deleting either parent removes
// the lease at the database level.
type Lease struct {
	HubBase
	PropertyID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"property_id"`
	Property    Property        `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
	TenantID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Tenant      Tenant          `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"-"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time      `gorm:"type:date" json:"end_date"`
	MonthlyRent decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"monthly_rent"`
	Deposit     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"deposit"`
	Status      LeaseStatus     `gorm:"size:20;not null;default:'active'" json:"status"`
}

func (Lease) TableName() string {
	return "property_mgmt_lease"
}

func NewLease(hubID uuid.UUID) *Lease {
	l := &Lease{Status: LeaseActive}
	l.HubID = hubID
	return l
}

func (l *Lease) String() string {
	return l.ID.String()
}

func (l *Lease) Field(name string) any {
	switch name {
	case "property":
		return l.Property.Name
	case "tenant":
		return l.Tenant.Name
	case "start_date":
		return l.StartDate
	case "end_date":
		return l.EndDate
	case "monthly_rent":
		return l.MonthlyRent
	case "deposit":
		return l.Deposit
	case "status":
		return string(l.Status)
	case "created_at":
		return l.CreatedAt
	}
	return nil
}
