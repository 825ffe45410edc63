package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// MockSnapshotter is a testify mock of Snapshotter.
type MockSnapshotter struct {
	mock.Mock
}

func (m *MockSnapshotter) LoadTasks(ctx context.Context) []model.Task {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task)
}

func (m *MockSnapshotter) SaveTasks(ctx context.Context, tasks []model.Task) {
	m.Called(ctx, tasks)
}

// fakeClock advances one second per reading.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task_%d", n)
	}
}

func newTestRepo(t *testing.T, initial []model.Task) (*TaskRepo, *MockSnapshotter) {
	t.Helper()
	m := new(MockSnapshotter)
	m.On("LoadTasks", mock.Anything).Return(initial)
	m.On("SaveTasks", mock.Anything, mock.Anything).Return()

	clock := &fakeClock{t: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	r := NewTaskRepo(context.Background(), m, zap.NewNop(),
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
	)
	return r, m
}

func form(title string, p model.Priority) model.TaskForm {
	return model.TaskForm{
		Title:    title,
		Status:   model.StatusTodo,
		Priority: p,
		DueDate:  model.NewDate(2025, 1, 1),
	}
}

func TestTaskRepo_LoadsOnConstruction(t *testing.T) {
	initial := []model.Task{{ID: "x", Status: model.StatusDone, Priority: model.PriorityLow}}
	r, m := newTestRepo(t, initial)

	assert.Equal(t, initial, r.Tasks())
	m.AssertNumberOfCalls(t, "SaveTasks", 0)
}

func TestTaskRepo_Create(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	created, err := r.Create(ctx, form("Write spec", model.PriorityHigh), "u1")
	require.NoError(t, err)

	assert.Equal(t, "task_1", created.ID)
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, model.PriorityHigh, created.Priority)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, ok := r.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)

	m.AssertNumberOfCalls(t, "SaveTasks", 1)
	m.AssertCalled(t, "SaveTasks", mock.Anything, []model.Task{created})
}

func TestTaskRepo_CreateRejectsOutOfRangeEnums(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})

	f := form("Bad", model.Priority("urgent"))
	_, err := r.Create(context.Background(), f, "u1")
	assert.ErrorIs(t, err, ErrInvalidTask)

	f = form("Bad", model.PriorityLow)
	f.Status = "blocked"
	_, err = r.Create(context.Background(), f, "u1")
	assert.ErrorIs(t, err, ErrInvalidTask)

	assert.Zero(t, r.Len())
	m.AssertNumberOfCalls(t, "SaveTasks", 0)
}

func TestTaskRepo_CreateIDsAreUnique(t *testing.T) {
	m := new(MockSnapshotter)
	m.On("LoadTasks", mock.Anything).Return([]model.Task{})
	m.On("SaveTasks", mock.Anything, mock.Anything).Return()
	r := NewTaskRepo(context.Background(), m, zap.NewNop())

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		created, err := r.Create(context.Background(), form(fmt.Sprintf("Task %d", i), model.PriorityLow), "u1")
		require.NoError(t, err)
		_, dup := seen[created.ID]
		require.False(t, dup, "id %s issued twice", created.ID)
		seen[created.ID] = struct{}{}
	}
	m.AssertNumberOfCalls(t, "SaveTasks", 200)
}

func TestTaskRepo_Update(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	created, err := r.Create(ctx, form("Original", model.PriorityLow), "u1")
	require.NoError(t, err)

	title := "Updated"
	prio := model.PriorityHigh
	updated, ok, err := r.Update(ctx, created.ID, model.TaskPatch{Title: &title, Priority: &prio})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	assert.Equal(t, created.Status, updated.Status, "fields not in the patch are kept")
	assert.Equal(t, created.DueDate, updated.DueDate)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	m.AssertNumberOfCalls(t, "SaveTasks", 2)
}

func TestTaskRepo_SetStatus(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	created, err := r.Create(ctx, form("Move me", model.PriorityMedium), "u1")
	require.NoError(t, err)

	moved, ok, err := r.SetStatus(ctx, created.ID, model.StatusDone)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, model.StatusDone, moved.Status)
	assert.Equal(t, created.Title, moved.Title)
	assert.Equal(t, created.CreatedAt, moved.CreatedAt)
	assert.NotEqual(t, created.UpdatedAt, moved.UpdatedAt)

	_, _, err = r.SetStatus(ctx, created.ID, model.Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidTask)

	got, _ := r.Get(created.ID)
	assert.Equal(t, model.StatusDone, got.Status)
	m.AssertNumberOfCalls(t, "SaveTasks", 2)
}

func TestTaskRepo_UnknownIDIsNoOp(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	_, err := r.Create(ctx, form("Keep", model.PriorityLow), "u1")
	require.NoError(t, err)
	before := r.Tasks()

	title := "Ghost"
	_, ok, err := r.Update(ctx, "nope", model.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.SetStatus(ctx, "nope", model.StatusDone)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, r.Delete(ctx, "nope"))

	assert.Equal(t, before, r.Tasks())
	// create + the unconditional delete write; update/status misses write nothing
	m.AssertNumberOfCalls(t, "SaveTasks", 2)
}

func TestTaskRepo_Delete(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	a, _ := r.Create(ctx, form("A", model.PriorityLow), "u1")
	b, _ := r.Create(ctx, form("B", model.PriorityLow), "u1")

	assert.True(t, r.Delete(ctx, a.ID))
	assert.Equal(t, []model.Task{b}, r.Tasks())

	_, ok := r.Get(a.ID)
	assert.False(t, ok)
	m.AssertCalled(t, "SaveTasks", mock.Anything, []model.Task{b})
}

func TestTaskRepo_ReplaceAll(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()
	_, _ = r.Create(ctx, form("Old", model.PriorityLow), "u1")

	replacement := []model.Task{
		{ID: "n1", Title: "New 1", Status: model.StatusTodo, Priority: model.PriorityHigh, UserID: "u1"},
		{ID: "n2", Title: "New 2", Status: model.StatusDone, Priority: model.PriorityLow, UserID: "u2"},
	}
	require.NoError(t, r.ReplaceAll(ctx, replacement))
	assert.Equal(t, replacement, r.Tasks())

	replacement[0].Title = "mutated by caller"
	got, _ := r.Get("n1")
	assert.Equal(t, "New 1", got.Title, "collection must not alias the caller's slice")

	require.NoError(t, r.ReplaceAll(ctx, nil))
	assert.Zero(t, r.Len())

	m.AssertNumberOfCalls(t, "SaveTasks", 3)
}

func TestTaskRepo_ReplaceAllRejectsBadInput(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{})
	ctx := context.Background()

	err := r.ReplaceAll(ctx, []model.Task{
		{ID: "a", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "a", Status: model.StatusDone, Priority: model.PriorityLow},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = r.ReplaceAll(ctx, []model.Task{{ID: "a", Status: "later", Priority: model.PriorityLow}})
	assert.ErrorIs(t, err, ErrInvalidTask)

	m.AssertNumberOfCalls(t, "SaveTasks", 0)
}

func TestTaskRepo_TasksReturnsCopy(t *testing.T) {
	r, _ := newTestRepo(t, []model.Task{})
	created, _ := r.Create(context.Background(), form("Copy", model.PriorityLow), "u1")

	snapshot := r.Tasks()
	snapshot[0].Title = "changed"

	got, _ := r.Get(created.ID)
	assert.Equal(t, "Copy", got.Title)
}

func TestTaskRepo_ReplaceOwned(t *testing.T) {
	r, m := newTestRepo(t, []model.Task{
		{ID: "a1", Title: "Ann 1", Status: model.StatusTodo, Priority: model.PriorityLow, UserID: "ann"},
		{ID: "b1", Title: "Bob 1", Status: model.StatusDone, Priority: model.PriorityHigh, UserID: "bob"},
		{ID: "a2", Title: "Ann 2", Status: model.StatusTodo, Priority: model.PriorityLow, UserID: "ann"},
	})
	ctx := context.Background()

	err := r.ReplaceOwned(ctx, "bob", []model.Task{
		{ID: "b2", Title: "Bob 2", Status: model.StatusTodo, Priority: model.PriorityMedium, UserID: "ann"},
	})
	require.NoError(t, err)

	got := r.Tasks()
	require.Len(t, got, 3)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)
	assert.Equal(t, "b2", got[2].ID)
	assert.Equal(t, "bob", got[2].UserID, "incoming tasks are stamped with the caller")
	m.AssertNumberOfCalls(t, "SaveTasks", 1)

	t.Run("id taken by another user", func(t *testing.T) {
		err := r.ReplaceOwned(ctx, "bob", []model.Task{
			{ID: "a1", Title: "Steal", Status: model.StatusTodo, Priority: model.PriorityLow},
		})
		assert.ErrorIs(t, err, ErrDuplicateID)

		owner, ok := r.Get("a1")
		require.True(t, ok)
		assert.Equal(t, "ann", owner.UserID)
		assert.Equal(t, "Ann 1", owner.Title)
		m.AssertNumberOfCalls(t, "SaveTasks", 1)
	})
}
