package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property Status
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusSold      PropertyStatus = "sold"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusPending, PropertyStatusSold:
		return true
	}
	return false
}

// Fallback values substituted for missing listing fields.
const (
	DefaultPropertyTitle       = "Untitled Property"
	DefaultPropertyDescription = "Property description"
	DefaultPropertyLocation    = "Location TBD"
	DefaultPropertyType        = "house"
	DefaultLotSize             = "0"
	PlaceholderImage           = "/modern-house.png"

	DefaultAgentName  = "John Ambrose"
	DefaultAgentPhone = "+233200694805"
	DefaultAgentEmail = "info.mannadomeestate@gmail.com"
)

type Property struct {
	ID           string                      `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string                      `json:"title" gorm:"not null"`
	Description  string                      `json:"description" gorm:"type:text"`
	Price        float64                     `json:"price" gorm:"not null;index"`
	Location     string                      `json:"location"`
	PropertyType string                      `json:"property_type" gorm:"index"`
	Bedrooms     int                         `json:"bedrooms"`
	Bathrooms    int                         `json:"bathrooms"`
	SquareFeet   int                         `json:"square_feet"`
	LotSize      string                      `json:"lot_size"`
	YearBuilt    int                         `json:"year_built"`
	Status       PropertyStatus              `json:"status" gorm:"not null;index"`
	Featured     bool                        `json:"featured"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	AgentName    string                      `json:"agent_name"`
	AgentPhone   string                      `json:"agent_phone"`
	AgentEmail   string                      `json:"agent_email"`
	CreatedAt    time.Time                   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// BeforeCreate assigns the primary key.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PropertySnapshot is the denormalized listing summary attached to inquiries.
type PropertySnapshot struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}
