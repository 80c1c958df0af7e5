package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyRented      PropertyStatus = "rented"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertySold        PropertyStatus = "sold"
)

// PropertyStatuses lists the statuses in display order.
var PropertyStatuses = []PropertyStatus{PropertyAvailable, PropertyRented, PropertyMaintenance, PropertySold}

var propertyStatusLabels = map[PropertyStatus]string{
	PropertyAvailable:   "Available",
	PropertyRented:      "Rented",
	PropertyMaintenance: "Under Maintenance",
	PropertySold:        "Sold",
}

func (s PropertyStatus) Valid() bool {
	_, ok := propertyStatusLabels[s]
	return ok
}

func (s PropertyStatus) Label() string {
	if l, ok := propertyStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

const DefaultPropertyType = "residential"

// Property - a rentable unit
type Property struct {
	HubBase
	Name         string              `gorm:"size:255;not null" json:"name"`
	Address      string              `gorm:"type:text" json:"address"`
	PropertyType string              `gorm:"size:30;not null;default:'residential'" json:"property_type"`
	Bedrooms     uint                `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms    uint                `gorm:"not null;default:0" json:"bathrooms"`
	AreaSqm      decimal.NullDecimal `gorm:"type:decimal(8,2)" json:"area_sqm"`
	MonthlyRent  decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"monthly_rent"`
	Status       PropertyStatus      `gorm:"size:20;not null;default:'available'" json:"status"`
	IsActive     bool                `gorm:"not null" json:"is_active"`
}

func (Property) TableName() string {
	return "property_mgmt_property"
}

// NewProperty returns a property carrying the column defaults.
func NewProperty(hubID uuid.UUID) *Property {
	p := &Property{
		PropertyType: DefaultPropertyType,
		Status:       PropertyAvailable,
		IsActive:     true,
	}
	p.HubID = hubID
	return p
}

func (p *Property) String() string {
	return p.Name
}

// Field returns the value of an exported column by name.
func (p *Property) Field(name string) any {
	switch name {
	case "name":
		return p.Name
	case "address":
		return p.Address
	case "property_type":
		return p.PropertyType
	case "bedrooms":
		return p.Bedrooms
	case "bathrooms":
		return p.Bathrooms
	case "area_sqm":
		return p.AreaSqm
	case "monthly_rent":
		return p.MonthlyRent
	case "status":
		return string(p.Status)
	case "is_active":
		return p.IsActive
	case "created_at":
		return p.CreatedAt
	}
	return nil
}
