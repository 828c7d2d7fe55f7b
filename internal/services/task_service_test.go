package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// taskFixture wires a task service plus three principals: two ordinary
// users and an admin.
type taskFixture struct {
	tasks *TaskService
	alice auth.Principal
	bob   auth.Principal
	admin auth.Principal
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	db := newTestDB(t)
	events := NewEventService(db)
	users := NewUserService(db, auth.NewHasher(bcrypt.MinCost), events)

	principalFor := func(email, username string, role models.Role) auth.Principal {
		user, err := users.Register(email, username, "Secret123!")
		require.NoError(t, err)
		if role != models.RoleUser {
			_, err = users.Update(user.ID, models.UserUpdate{Role: &role})
			require.NoError(t, err)
		}
		return auth.Principal{ID: user.ID, Email: email, Username: username, Role: role, IsActive: true}
	}

	return &taskFixture{
		tasks: NewTaskService(db, events, nil),
		alice: principalFor("alice@x.com", "alice", models.RoleUser),
		bob:   principalFor("bob@x.com", "bob", models.RoleUser),
		admin: principalFor("admin@x.com", "admin", models.RoleAdmin),
	}
}

func TestTaskService_Create_Defaults(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	task, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
	assert.Equal(t, f.alice.ID, task.OwnerID)
	assert.Nil(t, task.DueDate)
}

func TestTaskService_Create_Validation(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	tests := []struct {
		name string
		in   models.TaskCreate
	}{
		{name: "empty title", in: models.TaskCreate{}},
		{name: "unknown status", in: models.TaskCreate{Title: "x", Status: "paused"}},
		{name: "unknown priority", in: models.TaskCreate{Title: "x", Priority: "urgent"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := f.tasks.Create(f.alice, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestTaskService_Ownership(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	task, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "private"})
	require.NoError(t, err)

	// Bob can neither read, update nor delete Alice's task.
	_, err = f.tasks.Get(f.bob, task.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	title := "hijacked"
	_, err = f.tasks.Update(f.bob, task.ID, models.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	assert.ErrorIs(t, f.tasks.Delete(f.bob, task.ID), apperr.ErrForbidden)

	// The admin can do all three regardless of owner.
	_, err = f.tasks.Get(f.admin, task.ID)
	require.NoError(t, err)

	adminTitle := "renamed by admin"
	updated, err := f.tasks.Update(f.admin, task.ID, models.TaskUpdate{Title: &adminTitle})
	require.NoError(t, err)
	assert.Equal(t, "renamed by admin", updated.Title)
	assert.Equal(t, f.alice.ID, updated.OwnerID)

	require.NoError(t, f.tasks.Delete(f.admin, task.ID))

	_, err = f.tasks.Get(f.alice, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTaskService_Update_Partial(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	task, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "write report", Description: "q3 numbers"})
	require.NoError(t, err)

	status := models.StatusInProgress
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	updated, err := f.tasks.Update(f.alice, task.ID, models.TaskUpdate{Status: &status, DueDate: &due})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "write report", updated.Title)
	assert.Equal(t, "q3 numbers", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestTaskService_Complete(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	task, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "write report"})
	require.NoError(t, err)

	completed, err := f.tasks.Complete(f.alice, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	_, err = f.tasks.Complete(f.bob, task.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestTaskService_DeleteLifecycle(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	task, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "short lived"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(f.alice, task.ID))

	_, err = f.tasks.Get(f.alice, task.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, f.tasks.Delete(f.alice, task.ID), apperr.ErrNotFound)
}

func TestTaskService_ListForOwner_Filters(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	_, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "a", Status: models.StatusPending, Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = f.tasks.Create(f.alice, models.TaskCreate{Title: "b", Status: models.StatusInProgress})
	require.NoError(t, err)
	done, err := f.tasks.Create(f.alice, models.TaskCreate{Title: "c"})
	require.NoError(t, err)
	_, err = f.tasks.Complete(f.alice, done.ID)
	require.NoError(t, err)
	_, err = f.tasks.Create(f.bob, models.TaskCreate{Title: "bobs"})
	require.NoError(t, err)

	all, err := f.tasks.ListForOwner(f.alice, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending := models.StatusPending
	filtered, err := f.tasks.ListForOwner(f.alice, models.TaskFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Title)

	high := models.PriorityHigh
	filtered, err = f.tasks.ListForOwner(f.alice, models.TaskFilter{Priority: &high})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	completed := true
	filtered, err = f.tasks.ListForOwner(f.alice, models.TaskFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "c", filtered[0].Title)

	everything, err := f.tasks.ListAll(models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestTaskService_Stats(t *testing.T) {
	t.Parallel()

	f := newTaskFixture(t)

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := f.tasks.Create(f.alice, models.TaskCreate{Title: title})
		require.NoError(t, err)
	}
	status := models.StatusInProgress
	tasks, err := f.tasks.ListForOwner(f.alice, models.TaskFilter{})
	require.NoError(t, err)
	_, err = f.tasks.Update(f.alice, tasks[0].ID, models.TaskUpdate{Status: &status})
	require.NoError(t, err)
	_, err = f.tasks.Complete(f.alice, tasks[1].ID)
	require.NoError(t, err)

	stats, err := f.tasks.Stats(f.alice)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.InDelta(t, 25.0, stats.CompletionRate, 0.01)

	// A fresh user has an all-zero breakdown.
	empty, err := f.tasks.Stats(f.bob)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Zero(t, empty.CompletionRate)
}
