package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

var errDisk = errors.New("disk full")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (brokenStore) Set(context.Context, string, []byte) error   { return errDisk }
func (brokenStore) Delete(context.Context, string) error        { return errDisk }
func (brokenStore) Close() error                                { return nil }

func sampleTasks() []model.Task {
	created := time.Date(2024, 12, 1, 9, 30, 0, 123000000, time.UTC)
	return []model.Task{
		{
			ID:          "task_1",
			Title:       "Write spec",
			Description: "first draft",
			Status:      model.StatusTodo,
			Priority:    model.PriorityHigh,
			DueDate:     model.NewDate(2025, 1, 1),
			CreatedAt:   created,
			UpdatedAt:   created.Add(time.Hour),
			UserID:      "u1",
		},
		{
			ID:        "task_2",
			Title:     "Read book",
			Status:    model.StatusDone,
			Priority:  model.PriorityLow,
			DueDate:   model.NewDate(2025, 2, 14),
			CreatedAt: created.Add(time.Minute),
			UpdatedAt: created.Add(time.Minute),
			UserID:    "u2",
		},
	}
}

func TestAdapter_TasksRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), zap.NewNop())

	tasks := sampleTasks()
	a.SaveTasks(ctx, tasks)

	assert.Equal(t, tasks, a.LoadTasks(ctx))
}

func TestAdapter_LoadTasksEmpty(t *testing.T) {
	a := NewAdapter(NewMemory(), zap.NewNop())

	got := a.LoadTasks(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdapter_LoadTasksDropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, KeyTasks, []byte(`[
		{"id":"a","title":"ok","status":"todo","priority":"low","dueDate":"2025-01-01","userId":"u1"},
		{"id":"b","title":"bad status","status":"blocked","priority":"low","dueDate":"2025-01-01","userId":"u1"},
		{"id":"c","title":"bad priority","status":"done","priority":"urgent","dueDate":"2025-01-01","userId":"u1"},
		{"id":"a","title":"dup","status":"done","priority":"high","dueDate":"2025-01-01","userId":"u1"}
	]`)))

	core, logs := observer.New(zap.WarnLevel)
	a := NewAdapter(m, zap.New(core))

	got := a.LoadTasks(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "ok", got[0].Title)
	assert.Equal(t, 3, logs.Len())
}

func TestAdapter_LoadTasksCorruptBlob(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, KeyTasks, []byte(`{not json`)))

	a := NewAdapter(m, zap.NewNop())
	assert.Empty(t, a.LoadTasks(ctx))
}

func TestAdapter_FailsSoft(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	a := NewAdapter(brokenStore{}, zap.New(core))

	assert.NotPanics(t, func() {
		a.SaveTasks(ctx, sampleTasks())
		a.SaveTheme(ctx, model.ThemeDark)
		a.SaveSession(ctx, model.Session{User: model.User{ID: "u1"}, Token: "t"})
		a.ClearSession(ctx)
	})

	assert.Empty(t, a.LoadTasks(ctx))
	assert.Equal(t, model.ThemeLight, a.LoadTheme(ctx))
	_, ok := a.LoadSession(ctx)
	assert.False(t, ok)

	assert.Equal(t, 7, logs.Len(), "every failed read and write is logged")
}

func TestAdapter_Theme(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := NewAdapter(m, zap.NewNop())

	assert.Equal(t, model.ThemeLight, a.LoadTheme(ctx), "default")

	a.SaveTheme(ctx, model.ThemeDark)
	assert.Equal(t, model.ThemeDark, a.LoadTheme(ctx))

	require.NoError(t, m.Set(ctx, KeyTheme, []byte("solarized")))
	assert.Equal(t, model.ThemeLight, a.LoadTheme(ctx), "unknown theme falls back to light")
}

func TestAdapter_Session(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), zap.NewNop())

	_, ok := a.LoadSession(ctx)
	assert.False(t, ok)

	want := model.Session{
		User: model.User{
			ID:        "user_1",
			Email:     "ann@example.com",
			Name:      "Ann",
			CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		Token: "opaque",
	}
	a.SaveSession(ctx, want)

	got, ok := a.LoadSession(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)

	a.ClearSession(ctx)
	_, ok = a.LoadSession(ctx)
	assert.False(t, ok)
}
