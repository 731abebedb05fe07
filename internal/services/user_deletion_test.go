package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mertcakir/rigcheck/internal/models"
	"github.com/mertcakir/rigcheck/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]bool
	failWith error
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	if !f.accounts[uid] {
		return services.ErrAccountNotFound
	}
	delete(f.accounts, uid)
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (f *fakeUsers) Get(_ context.Context, uid string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, uid)
	return nil
}

type fakeInspections struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*models.Inspection
	queryErr error
}

func (f *fakeInspections) FindByInspectorName(_ context.Context, name string) ([]models.Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []models.Inspection
	for _, insp := range f.byID {
		if insp.InspectorName == name {
			out = append(out, *insp)
		}
	}
	return out, nil
}

func (f *fakeInspections) MarkInspectorDeleted(_ context.Context, id uuid.UUID, mark services.InspectorMark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	insp, ok := f.byID[id]
	if !ok {
		return errors.New("inspection not found")
	}
	at := mark.DeletedAt
	insp.InspectorDeleted = true
	insp.InspectorDeletedAt = &at
	insp.InspectorName = mark.MarkedName
	insp.OriginalInspectorName = mark.OriginalName
	insp.OriginalInspectorID = mark.OriginalID
	insp.OriginalInspectorEmail = mark.OriginalEmail
	return nil
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (f *fakeNotifications) DeleteByTargetUser(_ context.Context, target string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []models.Notification
	var removed int64
	for _, n := range f.items {
		if n.TargetUser == target {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	f.items = kept
	return removed, nil
}

type fakeAudit struct {
	mu       sync.Mutex
	entries  []*models.AuditLog
	failWith error
}

func (f *fakeAudit) Record(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fixture struct {
	identity      *fakeIdentity
	users         *fakeUsers
	inspections   *fakeInspections
	notifications *fakeNotifications
	audit         *fakeAudit
	svc           *services.UserDeletionService
}

func newFixture() *fixture {
	f := &fixture{
		identity:      &fakeIdentity{accounts: map[string]bool{}},
		users:         &fakeUsers{users: map[string]*models.User{}},
		inspections:   &fakeInspections{byID: map[uuid.UUID]*models.Inspection{}},
		notifications: &fakeNotifications{},
		audit:         &fakeAudit{},
	}
	f.svc = services.NewUserDeletionService(f.identity, f.users, f.inspections, f.notifications, f.audit)
	return f
}

func (f *fixture) addUser(uid string, u models.User) {
	f.users.users[uid] = &u
	f.identity.accounts[uid] = true
}

func (f *fixture) addInspection(inspectorName string) uuid.UUID {
	id := uuid.New()
	f.inspections.byID[id] = &models.Inspection{ID: id, InspectorName: inspectorName}
	return id
}

func adminUser() models.User {
	return models.User{Role: "admin", Username: "boss", Email: "boss@x.com"}
}

func workflowCode(t *testing.T, err error) services.ErrorCode {
	t.Helper()
	var wErr *services.WorkflowError
	require.ErrorAs(t, err, &wErr)
	return wErr.Code
}

func TestDeleteUserCompleteEndToEnd(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{
		Email:     "jane@x.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	first := f.addInspection("Jane Doe")
	second := f.addInspection("Jane Doe")
	f.notifications.items = []models.Notification{
		{ID: uuid.New(), TargetUser: "jane@x.com", Title: "Inspection due"},
		{ID: uuid.New(), TargetUser: "someone-else@x.com", Title: "Unrelated"},
	}

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1", Username: "boss", Email: "boss@x.com"}, "u2")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"auth", "user", "notifications:1"}, result.DeletedItems)
	assert.Equal(t, []string{"inspections:2"}, result.UpdatedItems)

	// Both inspections are preserved, never deleted, and marked exactly once.
	for _, id := range []uuid.UUID{first, second} {
		insp, ok := f.inspections.byID[id]
		require.True(t, ok, "inspection must still exist")
		assert.True(t, insp.InspectorDeleted)
		assert.Equal(t, "Jane Doe (Deleted)", insp.InspectorName)
		assert.Equal(t, "Jane Doe", insp.OriginalInspectorName)
		assert.Equal(t, "u2", insp.OriginalInspectorID)
		assert.Equal(t, "jane@x.com", insp.OriginalInspectorEmail)
		require.NotNil(t, insp.InspectorDeletedAt)
	}

	// The targeted notification is gone, the unrelated one stays.
	require.Len(t, f.notifications.items, 1)
	assert.Equal(t, "someone-else@x.com", f.notifications.items[0].TargetUser)

	// Profile and identity account are both removed.
	assert.NotContains(t, f.users.users, "u2")
	assert.NotContains(t, f.identity.accounts, "u2")

	// Exactly one audit entry with the full summary.
	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "u1", entry.Actor)
	assert.Equal(t, "user-delete-complete", entry.Action)
	assert.Equal(t, "u2", entry.Target)

	var details struct {
		PerformedBy          map[string]string `json:"performedBy"`
		TargetUser           map[string]string `json:"targetUser"`
		DeletedItems         []string          `json:"deletedItems"`
		UpdatedItems         []string          `json:"updatedItems"`
		InspectionsPreserved int               `json:"inspectionsPreserved"`
		SearchedNames        []string          `json:"searchedNames"`
		CompletedAt          string            `json:"completedAt"`
	}
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, []string{"Jane Doe", "jane@x.com"}, details.SearchedNames)
	assert.Equal(t, 2, details.InspectionsPreserved)
	assert.Equal(t, "boss", details.PerformedBy["username"])
	assert.Equal(t, "Unknown", details.TargetUser["username"])
	_, err = time.Parse(time.RFC3339, details.CompletedAt)
	assert.NoError(t, err)
}

func TestNonAdminCallerDeniedWithoutMutation(t *testing.T) {
	f := newFixture()
	f.addUser("u1", models.User{Role: "inspector", Username: "pleb"})
	f.addUser("u2", models.User{Email: "jane@x.com", FirstName: "Jane", LastName: "Doe"})
	inspID := f.addInspection("Jane Doe")
	f.notifications.items = []models.Notification{{ID: uuid.New(), TargetUser: "jane@x.com"}}

	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	assert.Equal(t, services.CodePermissionDenied, workflowCode(t, err))

	// Nothing changed.
	assert.Contains(t, f.users.users, "u2")
	assert.Contains(t, f.identity.accounts, "u2")
	assert.False(t, f.inspections.byID[inspID].InspectorDeleted)
	assert.Len(t, f.notifications.items, 1)
	assert.Empty(t, f.audit.entries)
}

func TestUnauthenticatedCaller(t *testing.T) {
	f := newFixture()
	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{}, "u2")
	assert.Equal(t, services.CodeUnauthenticated, workflowCode(t, err))
}

func TestEmptyTargetID(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "  ")
	assert.Equal(t, services.CodeInvalidArgument, workflowCode(t, err))
}

func TestSelfDeletionRejected(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u1")
	assert.Equal(t, services.CodeFailedPrecondition, workflowCode(t, err))
}

func TestMissingTargetUser(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "ghost")
	assert.Equal(t, services.CodeNotFound, workflowCode(t, err))
	assert.Empty(t, f.audit.entries)
}

func TestNoMatchingRecords(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe", Email: "jane@x.com"})

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "user"}, result.DeletedItems)
	assert.Empty(t, result.UpdatedItems)
}

func TestIdentityAccountAlreadyGone(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe", Email: "jane@x.com"})
	delete(f.identity.accounts, "u2")

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)
	assert.NotContains(t, result.DeletedItems, "auth")
	assert.Equal(t, []string{"user"}, result.DeletedItems)
}

func TestIdentityFailureTolerated(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe"})
	f.identity.failWith = errors.New("identity backend down")

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)
	assert.NotContains(t, result.DeletedItems, "auth")
}

func TestMarkedNameIsNeverReSuffixed(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	// A previous partial run already marked this user's inspections and the
	// profile's full name retained the marker.
	f.addUser("u2", models.User{FullName: "Jane Doe (Deleted)", Email: "jane@x.com"})
	id := f.addInspection("Jane Doe (Deleted)")

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe (Deleted)", f.inspections.byID[id].InspectorName)
	assert.Empty(t, result.UpdatedItems)

	// The marked candidate is excluded from the searched set.
	require.Len(t, f.audit.entries, 1)
	var details struct {
		SearchedNames []string `json:"searchedNames"`
	}
	require.NoError(t, json.Unmarshal(f.audit.entries[0].Details, &details))
	assert.Equal(t, []string{"jane@x.com"}, details.SearchedNames)
}

func TestDuplicateCandidatesAreSearchedTwice(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	// full_name repeats the first/last combination, so the same candidate
	// string is queried twice in order.
	f.addUser("u2", models.User{FirstName: "Jane", LastName: "Doe", FullName: "Jane Doe", Email: "jane@x.com"})
	f.addInspection("Jane Doe")

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)

	// The first pass renames the row, so the duplicate candidate finds
	// nothing and the count stays at one.
	assert.Equal(t, []string{"inspections:1"}, result.UpdatedItems)

	var details struct {
		SearchedNames []string `json:"searchedNames"`
	}
	require.NoError(t, json.Unmarshal(f.audit.entries[0].Details, &details))
	assert.Equal(t, []string{"Jane Doe", "Jane Doe", "jane@x.com"}, details.SearchedNames)
}

func TestNotificationsMatchedByUsernameAndEmail(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe", Email: "jane@x.com"})
	f.notifications.items = []models.Notification{
		{ID: uuid.New(), TargetUser: "jane@x.com"},
		{ID: uuid.New(), TargetUser: "jdoe"},
		{ID: uuid.New(), TargetUser: "other"},
	}

	result, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	require.NoError(t, err)

	assert.Contains(t, result.DeletedItems, "notifications:2")
	require.Len(t, f.notifications.items, 1)
	assert.Equal(t, "other", f.notifications.items[0].TargetUser)
}

func TestInspectionQueryFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe"})
	f.inspections.queryErr = errors.New("store unavailable")

	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	assert.Equal(t, services.CodeInternal, workflowCode(t, err))
}

func TestAuditWriteFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.addUser("u1", adminUser())
	f.addUser("u2", models.User{Username: "jdoe"})
	f.audit.failWith = errors.New("audit store down")

	_, err := f.svc.DeleteUserComplete(context.Background(), services.Caller{UID: "u1"}, "u2")
	assert.Equal(t, services.CodeInternal, workflowCode(t, err))

	// Earlier steps are committed and stay committed.
	assert.NotContains(t, f.users.users, "u2")
}
