package models

import (
	"time"

	"github.com/google/uuid"
)

// Dropdown taxonomy categories managed through the admin UI.
const (
	DropdownEquipmentCategory = "equipment-category"
	DropdownLocation          = "location"
	DropdownStatus            = "status"
	DropdownResult            = "result"
)

type DropdownOption struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category  string    `gorm:"index;not null" json:"category"`
	Value     string    `gorm:"not null" json:"value"`
	Label     string    `json:"label"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
