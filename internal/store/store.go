package store

import (
	"context"
	"errors"
	"fmt"
)

// Logical keys shared by every backend.
const (
	KeyTasks           = "tasks"
	KeyTheme           = "theme"
	KeyCurrentIdentity = "current_identity"
	KeyUsers           = "users"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store is a durable key-value blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Driver      string
	Path        string
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "memory":
		s = NewMemory()
	case "", "sqlite":
		s, err = OpenSQLite(cfg.Path)
	case "postgres":
		s, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		s, err = OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
