package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// Adapter is the typed view of a Store used by the session. It never
// returns storage errors: reads fall back to empty/default values and
// writes are logged and dropped, leaving in-memory state authoritative.
type Adapter struct {
	store  Store
	logger *zap.Logger
}

func NewAdapter(s Store, logger *zap.Logger) *Adapter {
	return &Adapter{store: s, logger: logger}
}

func (a *Adapter) Store() Store { return a.store }

func (a *Adapter) LoadTasks(ctx context.Context) []model.Task {
	var raw []model.Task
	if !a.load(ctx, KeyTasks, &raw) {
		return []model.Task{}
	}

	tasks := make([]model.Task, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		if !t.Valid() {
			a.logger.Warn("dropping invalid stored task",
				zap.String("id", t.ID),
				zap.String("status", string(t.Status)),
				zap.String("priority", string(t.Priority)),
			)
			continue
		}
		if _, dup := seen[t.ID]; dup {
			a.logger.Warn("dropping duplicate stored task", zap.String("id", t.ID))
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks
}

func (a *Adapter) SaveTasks(ctx context.Context, tasks []model.Task) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	a.save(ctx, KeyTasks, tasks)
}

func (a *Adapter) LoadTheme(ctx context.Context) model.Theme {
	b, err := a.store.Get(ctx, KeyTheme)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Error("error loading theme", zap.Error(err))
		}
		return model.ThemeLight
	}
	theme := model.Theme(b)
	if !theme.Valid() {
		return model.ThemeLight
	}
	return theme
}

func (a *Adapter) SaveTheme(ctx context.Context, theme model.Theme) {
	if err := a.store.Set(ctx, KeyTheme, []byte(theme)); err != nil {
		a.logger.Error("error saving theme", zap.Error(err))
	}
}

func (a *Adapter) LoadSession(ctx context.Context) (model.Session, bool) {
	var s model.Session
	if !a.load(ctx, KeyCurrentIdentity, &s) || s.User.ID == "" {
		return model.Session{}, false
	}
	return s, true
}

func (a *Adapter) SaveSession(ctx context.Context, s model.Session) {
	a.save(ctx, KeyCurrentIdentity, s)
}

func (a *Adapter) ClearSession(ctx context.Context) {
	if err := a.store.Delete(ctx, KeyCurrentIdentity); err != nil {
		a.logger.Error("error clearing session", zap.Error(err))
	}
}

func (a *Adapter) load(ctx context.Context, key string, dest any) bool {
	b, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Error("error loading from store", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		a.logger.Error("error decoding stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (a *Adapter) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("error encoding value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := a.store.Set(ctx, key, b); err != nil {
		a.logger.Error("error saving to store", zap.String("key", key), zap.Error(err))
	}
}
