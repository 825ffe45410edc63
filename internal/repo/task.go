package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

var (
	ErrInvalidTask = errors.New("invalid task")
	ErrDuplicateID = errors.New("duplicate task id")
)

// TaskRepo owns the task collection of one session. Every mutating call
// writes exactly one full snapshot before returning; lookups that miss are
// silent no-ops and write nothing, except Delete which always writes.
type TaskRepo struct {
	mu     sync.Mutex
	tasks  []model.Task
	store  Snapshotter
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*TaskRepo)

func WithClock(now func() time.Time) Option {
	return func(r *TaskRepo) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *TaskRepo) { r.newID = gen }
}

func NewTaskRepo(ctx context.Context, store Snapshotter, logger *zap.Logger, opts ...Option) *TaskRepo {
	r := &TaskRepo{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:  func() string { return "task_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}

	r.tasks = store.LoadTasks(ctx)
	if r.tasks == nil {
		r.tasks = []model.Task{}
	}
	logger.Debug("task collection loaded", zap.Int("tasks", len(r.tasks)))
	return r
}

func (r *TaskRepo) Create(ctx context.Context, form model.TaskForm, userID string) (model.Task, error) {
	if !form.Status.Valid() || !form.Priority.Valid() {
		return model.Task{}, fmt.Errorf("%w: status %q priority %q", ErrInvalidTask, form.Status, form.Priority)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := model.Task{
		ID:          r.newID(),
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Priority:    form.Priority,
		DueDate:     form.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
	}
	r.tasks = append(r.tasks, t)
	r.persist(ctx)

	r.logger.Debug("task created", zap.String("id", t.ID), zap.String("user_id", userID))
	return t, nil
}

func (r *TaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, bool, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Task{}, false, fmt.Errorf("%w: status %q", ErrInvalidTask, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Task{}, false, fmt.Errorf("%w: priority %q", ErrInvalidTask, *patch.Priority)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	t := patch.Apply(r.tasks[i])
	t.UpdatedAt = r.now()
	r.tasks[i] = t
	r.persist(ctx)
	return t, true, nil
}

func (r *TaskRepo) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, bool, error) {
	if !status.Valid() {
		return model.Task{}, false, fmt.Errorf("%w: status %q", ErrInvalidTask, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	r.tasks[i].Status = status
	r.tasks[i].UpdatedAt = r.now()
	r.persist(ctx)
	return r.tasks[i], true, nil
}

// Delete reports whether a task was removed.
func (r *TaskRepo) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	removed := len(kept) != len(r.tasks)
	r.tasks = kept
	r.persist(ctx)
	return removed
}

// ReplaceAll overwrites the collection, for import and reset.
func (r *TaskRepo) ReplaceAll(ctx context.Context, tasks []model.Task) error {
	if err := checkCollection(tasks); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(make([]model.Task, 0, len(tasks)), tasks...)
	r.persist(ctx)
	r.logger.Info("task collection replaced", zap.Int("tasks", len(tasks)))
	return nil
}

// ReplaceOwned swaps the tasks of userID for tasks, stamped with userID.
// Tasks of other users keep their place and values.
func (r *TaskRepo) ReplaceOwned(ctx context.Context, userID string, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make([]model.Task, 0, len(r.tasks)+len(tasks))
	for _, t := range r.tasks {
		if t.UserID != userID {
			merged = append(merged, t)
		}
	}
	for _, t := range tasks {
		t.UserID = userID
		merged = append(merged, t)
	}
	if err := checkCollection(merged); err != nil {
		return err
	}

	r.tasks = merged
	r.persist(ctx)
	r.logger.Info("owned tasks replaced", zap.String("user_id", userID), zap.Int("tasks", len(tasks)))
	return nil
}

func (r *TaskRepo) Get(id string) (model.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i], true
	}
	return model.Task{}, false
}

// Tasks returns a copy of the collection in insertion order.
func (r *TaskRepo) Tasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append(make([]model.Task, 0, len(r.tasks)), r.tasks...)
}

func (r *TaskRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tasks)
}

func (r *TaskRepo) indexOf(id string) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func checkCollection(tasks []model.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if !t.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidTask, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func (r *TaskRepo) persist(ctx context.Context) {
	r.store.SaveTasks(ctx, append(make([]model.Task, 0, len(r.tasks)), r.tasks...))
}
