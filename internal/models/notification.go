package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification targets a user by email or username string. Notifications
// are transient and are hard-deleted when their user is removed.
type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TargetUser string    `gorm:"index;not null" json:"target_user"` // email or username
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
