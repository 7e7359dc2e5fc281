package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Test helper: create a SQLite-backed store in a temp directory
func createTestStore(t *testing.T) *store.SQLiteStore {
	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err, "should create store")
	t.Cleanup(func() { s.Close() })
	return s
}

// Test helper: create a manager with a cheap hash cost
func createTestManager(t *testing.T) (*Manager, *store.SQLiteStore) {
	s := createTestStore(t)
	return NewManager(s, Options{BcryptCost: bcrypt.MinCost}), s
}

// TestHashPassword_Salted verifies hashes differ and verify
func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "secret", first, "password must not be stored in plain text")
	assert.NotEqual(t, first, second, "each hash should have its own salt")
	assert.True(t, CheckPassword(first, "secret"))
	assert.True(t, CheckPassword(second, "secret"))
	assert.False(t, CheckPassword(first, "Secret"))
	assert.False(t, CheckPassword("not-a-hash", "secret"))
}

// TestHashPassword_TooLong verifies bcrypt's length limit is surfaced
func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

// TestManager_Register verifies a user is stored with a hashed password
func TestManager_Register(t *testing.T) {
	m, s := createTestManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "  ada ", "lovelace", []string{"tech"})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, []string{"tech"}, user.Preferences)

	stored, err := s.GetUserByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.NotEqual(t, "lovelace", stored.PasswordHash)
	assert.True(t, CheckPassword(stored.PasswordHash, "lovelace"))
}

// TestManager_RegisterValidation verifies required fields and uniqueness
func TestManager_RegisterValidation(t *testing.T) {
	m, _ := createTestManager(t)
	ctx := context.Background()

	_, err := m.Register(ctx, " ", "pw", nil)
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = m.Register(ctx, "ada", "", nil)
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = m.Register(ctx, "ada", "pw", nil)
	require.NoError(t, err)
	_, err = m.Register(ctx, "ada", "other", nil)
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)
}

// TestManager_Authenticate verifies credential checks
func TestManager_Authenticate(t *testing.T) {
	m, _ := createTestManager(t)
	ctx := context.Background()

	registered, err := m.Register(ctx, "ada", "lovelace", nil)
	require.NoError(t, err)

	user, err := m.Authenticate(ctx, "ada", "lovelace")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = m.Authenticate(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Authenticate(ctx, "nobody", "lovelace")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestManager_SessionLifecycle verifies start, resolve and end
func TestManager_SessionLifecycle(t *testing.T) {
	m, _ := createTestManager(t)
	ctx := context.Background()

	user, err := m.Register(ctx, "ada", "lovelace", nil)
	require.NoError(t, err)

	session, err := m.StartSession(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, DefaultSessionTTL, session.ExpiresAt.Sub(session.CreatedAt))

	got, err := m.UserForSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, m.EndSession(ctx, session.Token))
	_, err = m.UserForSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, m.EndSession(ctx, session.Token), "ending twice is not an error")
	assert.NoError(t, m.EndSession(ctx, ""))
}

// TestManager_UnknownSession verifies unknown tokens are ErrNoSession
func TestManager_UnknownSession(t *testing.T) {
	m, _ := createTestManager(t)

	_, err := m.UserForSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = m.UserForSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

// TestManager_ExpiredSession verifies expired sessions are rejected and
// removed
func TestManager_ExpiredSession(t *testing.T) {
	m, s := createTestManager(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m.now = func() time.Time { return now }

	user, err := m.Register(ctx, "ada", "lovelace", nil)
	require.NoError(t, err)
	session, err := m.StartSession(ctx, user.ID)
	require.NoError(t, err)

	now = start.Add(DefaultSessionTTL)
	_, err = m.UserForSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.GetSession(ctx, session.Token)
	assert.ErrorIs(t, err, store.ErrSessionNotFound, "expired session should be deleted")
}

// TestManager_StartSessionPrunesExpired verifies login clears stale sessions
func TestManager_StartSessionPrunesExpired(t *testing.T) {
	m, s := createTestManager(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m.now = func() time.Time { return now }

	user, err := m.Register(ctx, "ada", "lovelace", nil)
	require.NoError(t, err)
	old, err := m.StartSession(ctx, user.ID)
	require.NoError(t, err)

	now = start.Add(48 * time.Hour)
	fresh, err := m.StartSession(ctx, user.ID)
	require.NoError(t, err)

	_, err = s.GetSession(ctx, old.Token)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	_, err = s.GetSession(ctx, fresh.Token)
	assert.NoError(t, err)
}

// TestNewManager_Defaults verifies zero options use defaults
func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(createTestStore(t), Options{})
	assert.Equal(t, DefaultSessionTTL, m.SessionTTL())
	assert.Equal(t, bcrypt.DefaultCost, m.cost)
}
