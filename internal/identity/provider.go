// Package identity registers and signs in the board's user. Both calls carry
// a fixed simulated latency and never leave partial state behind.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/store"
	"github.com/BuzzLyutic/taskboard/internal/validation"
)

const DefaultLatency = 500 * time.Millisecond

var (
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var registerMessages = validation.Messages{
	"name.required":            "Name is required",
	"name.min":                 "Name must be at least 2 characters",
	"email.required":           "Email is required",
	"email.email":              "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"password.max":             "Password must be at most 72 bytes",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
}

var loginMessages = validation.Messages{
	"email.required":    "Email is required",
	"email.email":       "Email is invalid",
	"password.required": "Password is required",
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int
	Latency    time.Duration
}

// Provider is the identity backend of one board session.
type Provider struct {
	users    userStore
	sessions *store.Adapter
	hasher   *PasswordHasher
	tokens   *TokenManager
	latency  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	// mu serializes the read-modify-write of the user list.
	mu    sync.Mutex
	group singleflight.Group
}

func NewProvider(adapter *store.Adapter, cfg Config, logger *zap.Logger) *Provider {
	return &Provider{
		users:    userStore{store: adapter.Store(), logger: logger},
		sessions: adapter,
		hasher:   NewPasswordHasher(cfg.BcryptCost),
		tokens:   NewTokenManager(cfg.Secret, cfg.TokenTTL, cfg.Issuer),
		latency:  cfg.Latency,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Register creates the account, signs it in and persists the session.
// Concurrent submissions for the same email share one call.
func (p *Provider) Register(ctx context.Context, req RegisterRequest) (model.Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	verr := validation.Struct(req, registerMessages)
	// max counts runes; bcrypt limits bytes.
	if len(req.Password) > MaxPasswordBytes {
		verr.Add("password", registerMessages["password.max"])
	}
	if err := verr.OrNil(); err != nil {
		return model.Session{}, err
	}

	return shared(ctx, p, "register:"+req.Email, p.register, req)
}

// shared runs fn once for all concurrent callers of key. The call runs on
// the context of whichever caller started it; if that caller gives up,
// callers whose own context is still live start the call again.
func shared[R any](ctx context.Context, p *Provider, key string, fn func(context.Context, R) (model.Session, error), req R) (model.Session, error) {
	for {
		v, err, joined := p.group.Do(key, func() (any, error) {
			return fn(ctx, req)
		})
		if joined {
			p.logger.Debug("identity call shared", zap.String("key", key))
		}
		if err != nil && isContextErr(err) && ctx.Err() == nil {
			continue
		}
		if err != nil {
			return model.Session{}, err
		}
		return v.(model.Session), nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (p *Provider) register(ctx context.Context, req RegisterRequest) (model.Session, error) {
	if err := p.wait(ctx); err != nil {
		return model.Session{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.users.load(ctx)
	if err != nil {
		return model.Session{}, err
	}
	if _, exists := findByEmail(users, req.Email); exists {
		return model.Session{}, ErrDuplicateEmail
	}

	hash, err := p.hasher.Hash(req.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := storedUser{
		ID:           "user_" + uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}
	if err := p.users.save(ctx, append(users, u)); err != nil {
		return model.Session{}, err
	}

	p.logger.Info("user registered", zap.String("user_id", u.ID))
	return p.signIn(ctx, u)
}

// Login checks the credentials and persists the resulting session.
func (p *Provider) Login(ctx context.Context, req LoginRequest) (model.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req, loginMessages).OrNil(); err != nil {
		return model.Session{}, err
	}

	sum := sha256.Sum256([]byte(req.Email + "\x00" + req.Password))
	return shared(ctx, p, "login:"+hex.EncodeToString(sum[:]), p.login, req)
}

func (p *Provider) login(ctx context.Context, req LoginRequest) (model.Session, error) {
	if err := p.wait(ctx); err != nil {
		return model.Session{}, err
	}

	users, err := p.users.load(ctx)
	if err != nil {
		return model.Session{}, err
	}
	u, ok := findByEmail(users, req.Email)
	if !ok || !p.hasher.Verify(req.Password, u.PasswordHash) {
		p.logger.Info("login rejected", zap.String("email", req.Email))
		return model.Session{}, ErrInvalidCredentials
	}
	return p.signIn(ctx, u)
}

func (p *Provider) signIn(ctx context.Context, u storedUser) (model.Session, error) {
	token, err := p.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return model.Session{}, fmt.Errorf("sign token: %w", err)
	}
	s := model.Session{User: u.public(), Token: token}
	p.sessions.SaveSession(ctx, s)
	return s, nil
}

func (p *Provider) Logout(ctx context.Context) {
	p.sessions.ClearSession(ctx)
}

// Current returns the persisted session when its token is still good.
func (p *Provider) Current(ctx context.Context) (model.Session, bool) {
	s, ok := p.sessions.LoadSession(ctx)
	if !ok {
		return model.Session{}, false
	}
	if _, err := p.tokens.Validate(s.Token); err != nil {
		return model.Session{}, false
	}
	return s, true
}

// Authenticate resolves a bearer token to its registered user.
func (p *Provider) Authenticate(ctx context.Context, token string) (model.User, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return model.User{}, err
	}
	users, err := p.users.load(ctx)
	if err != nil {
		return model.User{}, err
	}
	u, ok := findByID(users, claims.UserID)
	if !ok {
		return model.User{}, ErrInvalidToken
	}
	return u.public(), nil
}

func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
