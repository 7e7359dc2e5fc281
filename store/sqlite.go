package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and initializes the
// schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		preferences TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		url_to_image TEXT,
		source_name TEXT,
		published_at TEXT,
		description TEXT,
		created_at TEXT NOT NULL,
		UNIQUE (user_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks(user_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, input NewUser) (*User, error) {
	user := newUser(input, s.now())

	preferences, err := json.Marshal(user.Preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, preferences, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		user.ID.String(),
		user.Username,
		user.PasswordHash,
		string(preferences),
		formatTime(&user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, preferences, created_at
		FROM users WHERE id = ?
	`, id.String())
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, preferences, created_at
		FROM users WHERE username = ?
	`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var idStr, username, passwordHash, preferencesJSON, createdAtStr string
	err := row.Scan(&idStr, &username, &passwordHash, &preferencesJSON, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	preferences := []string{}
	if err := json.Unmarshal([]byte(preferencesJSON), &preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Preferences:  preferences,
		CreatedAt:    parseTime(createdAtStr),
	}, nil
}

// CreateSession stores a session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`,
		session.Token,
		session.UserID.String(),
		formatTime(&session.CreatedAt),
		formatTime(&session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token. Expired sessions are returned as
// is; callers decide what to do with them.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	var userIDStr, createdAtStr, expiresAtStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, created_at, expires_at FROM sessions WHERE token = ?
	`, token).Scan(&userIDStr, &createdAtStr, &expiresAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session user id: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: parseTime(createdAtStr),
		ExpiresAt: parseTime(expiresAtStr),
	}, nil
}

// DeleteSession removes a session.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireAffected(result, ErrSessionNotFound)
}

// DeleteExpiredSessions removes every session that expired at or before now.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, formatTime(&now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// ListBookmarks returns a user's bookmarks, newest first.
func (s *SQLiteStore) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, url, url_to_image, source_name,
		       published_at, description, created_at
		FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

func scanBookmark(rows *sql.Rows) (*Bookmark, error) {
	var idStr, userIDStr, title, url, createdAtStr string
	var urlToImage, sourceName, publishedAtStr, description sql.NullString

	err := rows.Scan(
		&idStr, &userIDStr, &title, &url, &urlToImage, &sourceName,
		&publishedAtStr, &description, &createdAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid bookmark id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid bookmark user id: %w", err)
	}

	bookmark := &Bookmark{
		ID:          id,
		UserID:      userID,
		Title:       title,
		URL:         url,
		URLToImage:  nullString(urlToImage),
		SourceName:  nullString(sourceName),
		Description: nullString(description),
		CreatedAt:   parseTime(createdAtStr),
	}
	if publishedAtStr.Valid {
		t := parseTime(publishedAtStr.String)
		bookmark.PublishedAt = &t
	}

	return bookmark, nil
}

// CreateBookmark saves an article for a user.
func (s *SQLiteStore) CreateBookmark(ctx context.Context, userID uuid.UUID, input NewBookmark) (*Bookmark, error) {
	bookmark := newBookmark(userID, input, s.now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (
			id, user_id, title, url, url_to_image, source_name,
			published_at, description, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bookmark.ID.String(),
		bookmark.UserID.String(),
		bookmark.Title,
		bookmark.URL,
		bookmark.URLToImage,
		bookmark.SourceName,
		formatTime(bookmark.PublishedAt),
		bookmark.Description,
		formatTime(&bookmark.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBookmark
		}
		return nil, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return bookmark, nil
}

// DeleteBookmark removes a bookmark owned by userID.
func (s *SQLiteStore) DeleteBookmark(ctx context.Context, id, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return requireAffected(result, ErrBookmarkNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
