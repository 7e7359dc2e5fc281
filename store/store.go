package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/config"
)

// Custom errors for store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrSessionNotFound   = errors.New("session not found")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrDuplicateBookmark = errors.New("article already bookmarked")
)

// User is a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Preferences  []string  `json:"preferences"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the insert shape for a user. PasswordHash must already be hashed.
type NewUser struct {
	Username     string
	PasswordHash string
	Preferences  []string
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Bookmark is an article saved by a user.
type Bookmark struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	URLToImage  *string    `json:"urlToImage"`
	SourceName  *string    `json:"sourceName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewBookmark is the request body for saving an article.
type NewBookmark struct {
	Title       string     `json:"title" binding:"required"`
	URL         string     `json:"url" binding:"required"`
	URLToImage  *string    `json:"urlToImage"`
	SourceName  *string    `json:"sourceName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Description *string    `json:"description"`
}

// Store persists users, sessions and bookmarks.
type Store interface {
	CreateUser(ctx context.Context, user NewUser) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]Bookmark, error)
	CreateBookmark(ctx context.Context, userID uuid.UUID, bookmark NewBookmark) (*Bookmark, error)
	DeleteBookmark(ctx context.Context, id, userID uuid.UUID) error

	Close() error
}

// Open returns the backend selected by cfg.Type.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case config.StorageSQLite:
		return OpenSQLite(cfg.DSN)
	case config.StoragePostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

func newUser(user NewUser, now time.Time) *User {
	preferences := user.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	return &User{
		ID:           uuid.New(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Preferences:  preferences,
		CreatedAt:    now,
	}
}

func newBookmark(userID uuid.UUID, bookmark NewBookmark, now time.Time) *Bookmark {
	return &Bookmark{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       bookmark.Title,
		URL:         bookmark.URL,
		URLToImage:  bookmark.URLToImage,
		SourceName:  bookmark.SourceName,
		PublishedAt: bookmark.PublishedAt,
		Description: bookmark.Description,
		CreatedAt:   now,
	}
}
