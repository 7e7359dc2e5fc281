package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login lasts.
const DefaultSessionTTL = 24 * time.Hour

// Custom errors for authentication
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoSession          = errors.New("not logged in")
	ErrInvalidUsername    = errors.New("username is required")
	ErrInvalidPassword    = errors.New("password is required")
)

// UserStore is the part of store.Store the manager needs.
type UserStore interface {
	CreateUser(ctx context.Context, user store.NewUser) (*store.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
	CreateSession(ctx context.Context, session store.Session) error
	GetSession(ctx context.Context, token string) (*store.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Options tune a Manager. Zero values use the defaults.
type Options struct {
	SessionTTL time.Duration
	BcryptCost int
}

// Manager handles registration, login and server-side sessions.
type Manager struct {
	users      UserStore
	sessionTTL time.Duration
	cost       int
	now        func() time.Time
}

// NewManager creates a manager backed by users.
func NewManager(users UserStore, opts Options) *Manager {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Manager{
		users:      users,
		sessionTTL: opts.SessionTTL,
		cost:       opts.BcryptCost,
		now:        time.Now,
	}
}

// SessionTTL returns the lifetime of new sessions.
func (m *Manager) SessionTTL() time.Duration {
	return m.sessionTTL
}

// Register creates an account with a hashed password.
func (m *Manager) Register(ctx context.Context, username, password string, preferences []string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if password == "" {
		return nil, ErrInvalidPassword
	}

	hash, err := HashPassword(password, m.cost)
	if err != nil {
		return nil, err
	}

	user, err := m.users.CreateUser(ctx, store.NewUser{
		Username:     username,
		PasswordHash: hash,
		Preferences:  preferences,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := m.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// StartSession issues a new session for userID. Expired sessions are pruned
// first.
func (m *Manager) StartSession(ctx context.Context, userID uuid.UUID) (*store.Session, error) {
	now := m.now()

	removed, err := m.users.DeleteExpiredSessions(ctx, now)
	if err != nil {
		slog.Warn("Failed to prune expired sessions", "error", err)
	} else if removed > 0 {
		slog.Debug("Pruned expired sessions", "count", removed)
	}

	session := store.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	if err := m.users.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &session, nil
}

// EndSession deletes the session. Ending an unknown session is not an error.
func (m *Manager) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := m.users.DeleteSession(ctx, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil
	}
	return err
}

// UserForSession resolves a session token to its user. Expired sessions are
// deleted and reported as ErrNoSession.
func (m *Manager) UserForSession(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	session, err := m.users.GetSession(ctx, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(m.now()) {
		if err := m.users.DeleteSession(ctx, token); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			slog.Warn("Failed to delete expired session", "error", err)
		}
		return nil, ErrNoSession
	}

	user, err := m.users.GetUser(ctx, session.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}
