package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/store"
)

type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u storedUser) public() model.User {
	return model.User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// userStore keeps the credential list under store.KeyUsers. A missing key
// is an empty list; any other read failure is returned so that a write can
// never replace accounts it failed to see.
type userStore struct {
	store  store.Store
	logger *zap.Logger
}

func (s userStore) load(ctx context.Context) ([]storedUser, error) {
	b, err := s.store.Get(ctx, store.KeyUsers)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("error loading users", zap.Error(err))
		return nil, fmt.Errorf("load users: %w", err)
	}
	var users []storedUser
	if err := json.Unmarshal(b, &users); err != nil {
		s.logger.Error("error decoding users", zap.Error(err))
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s userStore) save(ctx context.Context, users []storedUser) error {
	b, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyUsers, b); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func findByEmail(users []storedUser, email string) (storedUser, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return storedUser{}, false
}

func findByID(users []storedUser, id string) (storedUser, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return storedUser{}, false
}
