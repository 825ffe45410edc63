package repo

import (
	"context"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// Snapshotter persists the whole task collection. Implementations must not
// fail the caller: storage problems are theirs to log.
type Snapshotter interface {
	LoadTasks(ctx context.Context) []model.Task
	SaveTasks(ctx context.Context, tasks []model.Task)
}

type TaskRepository interface {
	Create(ctx context.Context, form model.TaskForm, userID string) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, bool, error)
	SetStatus(ctx context.Context, id string, status model.Status) (model.Task, bool, error)
	Delete(ctx context.Context, id string) bool
	ReplaceAll(ctx context.Context, tasks []model.Task) error
	ReplaceOwned(ctx context.Context, userID string, tasks []model.Task) error
	Get(id string) (model.Task, bool)
	Tasks() []model.Task
}

var _ TaskRepository = (*TaskRepo)(nil)
