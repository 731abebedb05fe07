package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Equipment struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	// Partial unique index: decommissioned equipment frees its serial number.
	SerialNumber string         `gorm:"index:idx_equipment_serial,unique,where:deleted_at IS NULL" json:"serial_number"`
	Category     string         `json:"category"` // dropdown: equipment-category
	Location     string         `json:"location"` // dropdown: location
	Status       string         `gorm:"default:'active'" json:"status"`
	Manufacturer string         `json:"manufacturer"`
	Notes        string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
