package models

import (
	"time"

	"github.com/google/uuid"
)

// DeletedMarker is appended to inspector names of preserved inspections when
// the inspector's account is removed. It doubles as the idempotency guard:
// a name already carrying the marker is never re-marked.
const DeletedMarker = " (Deleted)"

// Inspection links to its inspector by denormalized name, not by foreign
// key. Renames or duplicate names silently break the link; the deletion
// workflow searches every plausible name form because of this.
type Inspection struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EquipmentID   uuid.UUID `gorm:"type:uuid;index" json:"equipment_id"`
	InspectorName string    `gorm:"index" json:"inspector_name"`
	Result        string    `json:"result"` // dropdown: result
	Notes         string    `gorm:"type:text" json:"notes"`
	PerformedAt   time.Time `json:"performed_at"`

	// Preservation fields, set once by the user-deletion workflow.
	InspectorDeleted       bool       `gorm:"default:false" json:"inspector_deleted"`
	InspectorDeletedAt     *time.Time `json:"inspector_deleted_at,omitempty"`
	OriginalInspectorName  string     `json:"original_inspector_name,omitempty"`
	OriginalInspectorID    string     `json:"original_inspector_id,omitempty"`
	OriginalInspectorEmail string     `json:"original_inspector_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InspectionPhoto struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InspectionID uuid.UUID `gorm:"type:uuid;index;not null" json:"inspection_id"`
	ObjectKey    string    `gorm:"not null" json:"object_key"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
