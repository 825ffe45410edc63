package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/validation"
	"github.com/BuzzLyutic/taskboard/internal/view"
)

var ErrNotFound = errors.New("task not found")

var formMessages = validation.Messages{
	"title.required":    "Title is required",
	"title.min":         "Title must be at least 3 characters",
	"status.required":   "Status is required",
	"status.oneof":      "Status must be one of todo, in-progress, done",
	"priority.required": "Priority is required",
	"priority.oneof":    "Priority must be one of low, medium, high",
}

type TaskService struct {
	repo   repo.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskService(repo repo.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the clock used for the due date check.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Create(ctx context.Context, form model.TaskForm, userID string) (model.Task, error) {
	form.Title = strings.TrimSpace(form.Title)

	verr := validation.Struct(form, formMessages)
	s.checkDueDate(verr, form.DueDate)
	if err := verr.OrNil(); err != nil {
		return model.Task{}, err
	}
	return s.repo.Create(ctx, form, userID)
}

// Get returns the task only to its owner. A task of another user looks
// the same as a missing one.
func (s *TaskService) Get(userID, id string) (model.Task, error) {
	t, ok := s.repo.Get(id)
	if !ok || t.UserID != userID {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

// Update merges the supplied fields. A due date is only checked against
// today when the patch actually changes it.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch model.TaskPatch) (model.Task, error) {
	current, err := s.Get(userID, id)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	verr := validation.Struct(patch, formMessages)
	if patch.Title != nil && *patch.Title == "" {
		verr.Fields["title"] = formMessages["title.required"]
	}
	if patch.DueDate != nil && !patch.DueDate.Equal(current.DueDate.Time) {
		s.checkDueDate(verr, *patch.DueDate)
	}
	if err := verr.OrNil(); err != nil {
		return model.Task{}, err
	}

	t, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *TaskService) SetStatus(ctx context.Context, userID, id string, status model.Status) (model.Task, error) {
	if !status.Valid() {
		verr := model.NewValidationError()
		verr.Add("status", formMessages["status.oneof"])
		return model.Task{}, verr
	}
	if _, err := s.Get(userID, id); err != nil {
		return model.Task{}, err
	}

	t, ok, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

// Delete reports whether the task existed. A missing id still writes the
// collection; a task of another user is left alone and nothing is written.
func (s *TaskService) Delete(ctx context.Context, userID, id string) bool {
	if t, ok := s.repo.Get(id); ok && t.UserID != userID {
		s.logger.Warn("delete of foreign task refused", zap.String("task_id", id), zap.String("user_id", userID))
		return false
	}
	return s.repo.Delete(ctx, id)
}

// ReplaceAll swaps the caller's tasks for tasks. Other users' tasks are
// kept as they are.
func (s *TaskService) ReplaceAll(ctx context.Context, userID string, tasks []model.Task) error {
	if err := s.repo.ReplaceOwned(ctx, userID, tasks); err != nil {
		s.logger.Warn("replace rejected", zap.Error(err))
		return err
	}
	return nil
}

// Owned lists the caller's tasks in insertion order, unfiltered.
func (s *TaskService) Owned(userID string) []model.Task {
	all := s.repo.Tasks()
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// StatusSetter binds SetStatus to one user for drag.Protocol. Missing and
// foreign tasks come back as ok=false.
type StatusSetter struct {
	service *TaskService
	userID  string
}

func (s *TaskService) StatusSetter(userID string) StatusSetter {
	return StatusSetter{service: s, userID: userID}
}

func (s StatusSetter) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, bool, error) {
	t, err := s.service.SetStatus(ctx, s.userID, id, status)
	if errors.Is(err, ErrNotFound) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, err
	}
	return t, true, nil
}

func (s *TaskService) List(userID string, c model.Criteria) []model.Task {
	return view.Derive(s.repo.Tasks(), userID, c)
}

func (s *TaskService) Board(userID string, c model.Criteria) view.Board {
	return view.NewBoard(s.repo.Tasks(), userID, c)
}

func (s *TaskService) checkDueDate(verr *model.ValidationError, due model.Date) {
	if due.IsZero() {
		verr.Add("dueDate", "Due date is required")
		return
	}
	if due.Before(model.DateOf(s.now())) {
		verr.Add("dueDate", "Due date cannot be in the past")
	}
}
