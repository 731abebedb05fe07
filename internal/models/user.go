package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the application profile document. Name fields are denormalized
// onto inspections as free text, so none of them are required here.
type User struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Role string    `gorm:"default:'inspector'" json:"role"` // inspector or admin
	// Partial unique indexes: a removed user's username and email become
	// claimable again by later registrations.
	Username  string         `gorm:"index:idx_users_username,unique,where:deleted_at IS NULL" json:"username"`
	Email     string         `gorm:"index:idx_users_email,unique,where:deleted_at IS NULL" json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	FullName  string         `json:"full_name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Credential is the identity-store record for a user. It is keyed by the
// same id as the profile and carries no name fields of its own.
type Credential struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// CandidateNames returns the ordered set of denormalized name strings under
// which this user may appear as an inspector on historical inspections:
// "first last" (both present), full name, username, email. Empty fields are
// skipped; duplicates are not removed.
func (u *User) CandidateNames() []string {
	var names []string
	if strings.TrimSpace(u.FirstName) != "" && strings.TrimSpace(u.LastName) != "" {
		names = append(names, u.FirstName+" "+u.LastName)
	}
	for _, n := range []string{u.FullName, u.Username, u.Email} {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}
	return names
}
