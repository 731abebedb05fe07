package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mertcakir/rigcheck/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// DeletionResult enumerates exactly what a completed user deletion changed.
// Item tags: "auth", "user", "notifications:<n>", "inspections:<n>".
type DeletionResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	DeletedItems []string `json:"deletedItems"`
	UpdatedItems []string `json:"updatedItems"`
}

// UserDeletionService removes a user account while preserving the
// historical inspections that reference the user by name.
//
// Inspections carry the inspector as denormalized free text, so the service
// searches every plausible name form instead of following a foreign key.
// The steps form a tolerant linear sequence, not a transaction: mutations
// committed before a later step fails are not rolled back. Two concurrent
// calls for the same target can both pass the existence check before either
// mutates; the race is benign and accepted.
type UserDeletionService struct {
	identity      IdentityStore
	users         UserStore
	inspections   InspectionStore
	notifications NotificationStore
	audit         AuditStore
	now           func() time.Time
}

func NewUserDeletionService(
	identity IdentityStore,
	users UserStore,
	inspections InspectionStore,
	notifications NotificationStore,
	audit AuditStore,
) *UserDeletionService {
	return &UserDeletionService{
		identity:      identity,
		users:         users,
		inspections:   inspections,
		notifications: notifications,
		audit:         audit,
		now:           time.Now,
	}
}

// DeleteUserComplete deletes the target's credentials and profile, marks
// the target's inspections as preserved, removes the target's
// notifications, and appends one audit entry. Precondition failures
// short-circuit before any mutation; the returned error is always a
// *WorkflowError.
func (s *UserDeletionService) DeleteUserComplete(ctx context.Context, caller Caller, targetID string) (*DeletionResult, error) {
	if caller.UID == "" {
		return nil, newError(CodeUnauthenticated, "Authentication required")
	}

	callerRec, err := s.users.Get(ctx, caller.UID)
	if err != nil {
		return nil, internalError("failed to load caller record", err)
	}
	if callerRec == nil || callerRec.Role != "admin" {
		return nil, newError(CodePermissionDenied, "Only admins can delete users")
	}
	if caller.Username == "" {
		caller.Username = callerRec.Username
	}
	if caller.Email == "" {
		caller.Email = callerRec.Email
	}

	if strings.TrimSpace(targetID) == "" {
		return nil, newError(CodeInvalidArgument, "uid is required")
	}
	if targetID == caller.UID {
		return nil, newError(CodeFailedPrecondition, "cannot delete self")
	}

	target, err := s.users.Get(ctx, targetID)
	if err != nil {
		return nil, internalError("failed to load target record", err)
	}
	if target == nil {
		return nil, newError(CodeNotFound, "User not found")
	}

	deletedItems := []string{}
	updatedItems := []string{}

	// Step 1: identity store. A missing or failing account deletion is
	// logged and tolerated; "auth" is recorded only on success.
	if err := s.identity.DeleteAccount(ctx, targetID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			slog.Warn("Identity account already absent", "uid", targetID)
		} else {
			slog.Warn("Identity deletion failed", "uid", targetID, "error", err)
		}
	} else {
		deletedItems = append(deletedItems, "auth")
	}

	// Step 2: application profile.
	if err := s.users.Delete(ctx, targetID); err != nil {
		return nil, internalError("failed to delete user record", err)
	}
	deletedItems = append(deletedItems, "user")

	// Step 3: preserve inspections under every name form the user may
	// appear as. Candidates are searched in priority order; all matches of
	// one candidate are marked concurrently.
	searchedNames := []string{}
	var preserved int
	for _, candidate := range target.CandidateNames() {
		if strings.Contains(candidate, models.DeletedMarker) {
			// Already marked in a previous run; never double-suffix.
			continue
		}
		searchedNames = append(searchedNames, candidate)

		matches, err := s.inspections.FindByInspectorName(ctx, candidate)
		if err != nil {
			return nil, internalError(fmt.Sprintf("inspection query failed for %q", candidate), err)
		}

		mark := InspectorMark{
			DeletedAt:     s.now(),
			MarkedName:    candidate + models.DeletedMarker,
			OriginalName:  candidate,
			OriginalID:    targetID,
			OriginalEmail: target.Email,
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, m := range matches {
			m := m
			g.Go(func() error {
				return s.inspections.MarkInspectorDeleted(gctx, m.ID, mark)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, internalError(fmt.Sprintf("inspection preservation failed for %q", candidate), err)
		}
		preserved += len(matches)
	}
	if preserved > 0 {
		updatedItems = append(updatedItems, fmt.Sprintf("inspections:%d", preserved))
	}

	// Step 4: notifications are transient; delete outright, matching the
	// target's email and username in parallel.
	var notifCount int64
	{
		g, gctx := errgroup.WithContext(ctx)
		counts := make([]int64, 2)
		for i, t := range []string{target.Email, target.Username} {
			if t == "" {
				continue
			}
			i, t := i, t
			g.Go(func() error {
				n, err := s.notifications.DeleteByTargetUser(gctx, t)
				counts[i] = n
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, internalError("notification cleanup failed", err)
		}
		notifCount = counts[0] + counts[1]
	}
	if notifCount > 0 {
		deletedItems = append(deletedItems, fmt.Sprintf("notifications:%d", notifCount))
	}

	// Step 5: audit trail. The entry is required; a failed write fails the
	// whole call even though earlier steps are already committed.
	if err := s.recordAudit(ctx, caller, target, targetID, deletedItems, updatedItems, preserved, searchedNames); err != nil {
		return nil, internalError("failed to write audit entry", err)
	}

	slog.Info("User deletion completed",
		"target", targetID,
		"deleted", deletedItems,
		"updated", updatedItems,
		"inspections_preserved", preserved,
	)

	return &DeletionResult{
		Success:      true,
		Message:      fmt.Sprintf("User deleted; %d inspection(s) preserved", preserved),
		DeletedItems: deletedItems,
		UpdatedItems: updatedItems,
	}, nil
}

func (s *UserDeletionService) recordAudit(ctx context.Context, caller Caller, target *models.User, targetID string, deleted, updated []string, preserved int, searched []string) error {
	callerName := caller.Username
	if callerName == "" {
		callerName = "Admin"
	}
	targetName := target.Username
	if targetName == "" {
		targetName = "Unknown"
	}

	details, err := json.Marshal(map[string]interface{}{
		"performedBy": map[string]string{
			"uid":      caller.UID,
			"username": callerName,
			"email":    caller.Email,
		},
		"targetUser": map[string]string{
			"uid":      targetID,
			"username": targetName,
			"email":    target.Email,
		},
		"deletedItems":         deleted,
		"updatedItems":         updated,
		"inspectionsPreserved": preserved,
		"searchedNames":        searched,
		"completedAt":          s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return s.audit.Record(ctx, &models.AuditLog{
		Actor:   caller.UID,
		Action:  "user-delete-complete",
		Target:  targetID,
		Details: datatypes.JSON(details),
	})
}
