package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
)

// Caller is the authenticated principal invoking a workflow operation,
// resolved from the transport's auth context.
type Caller struct {
	UID      string
	Username string
	Email    string
}

// ErrAccountNotFound reports that the identity store holds no account for
// the given id.
var ErrAccountNotFound = errors.New("account not found")

// IdentityStore manages authentication credentials, separate from the
// application's own user profiles.
type IdentityStore interface {
	DeleteAccount(ctx context.Context, uid string) error
}

// UserStore reads and deletes application user profiles. Get returns
// (nil, nil) when no record exists.
type UserStore interface {
	Get(ctx context.Context, uid string) (*models.User, error)
	Delete(ctx context.Context, uid string) error
}

// InspectorMark is the set of fields stamped onto a preserved inspection
// when its inspector's account is removed.
type InspectorMark struct {
	DeletedAt     time.Time
	MarkedName    string
	OriginalName  string
	OriginalID    string
	OriginalEmail string
}

type InspectionStore interface {
	FindByInspectorName(ctx context.Context, name string) ([]models.Inspection, error)
	MarkInspectorDeleted(ctx context.Context, id uuid.UUID, mark InspectorMark) error
}

type NotificationStore interface {
	// DeleteByTargetUser removes every notification whose target_user equals
	// the given value and reports how many were removed.
	DeleteByTargetUser(ctx context.Context, target string) (int64, error)
}

type AuditStore interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}
