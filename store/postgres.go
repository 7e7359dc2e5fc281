package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresStore implements Store on a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// OpenPostgres connects to connStr, verifies the connection and initializes
// the schema.
func OpenPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		preferences TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		url_to_image TEXT,
		source_name TEXT,
		published_at TIMESTAMPTZ,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks(user_id, created_at);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close releases every pooled connection.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, input NewUser) (*User, error) {
	user := newUser(input, s.now())

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, preferences, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.PasswordHash, user.Preferences, user.CreatedAt)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.queryUser(ctx, `
		SELECT id, username, password_hash, preferences, created_at
		FROM users WHERE id = $1
	`, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.queryUser(ctx, `
		SELECT id, username, password_hash, preferences, created_at
		FROM users WHERE username = $1
	`, username)
}

func (s *PostgresStore) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Preferences, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user.Preferences == nil {
		user.Preferences = []string{}
	}
	return &user, nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, session Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, token string) (*Session, error) {
	session := Session{Token: token}
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, created_at, expires_at FROM sessions WHERE token = $1
	`, token).Scan(&session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &session, nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]Bookmark, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, url, url_to_image, source_name,
		       published_at, description, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []Bookmark{}
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Title, &b.URL, &b.URLToImage, &b.SourceName,
			&b.PublishedAt, &b.Description, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}

	return bookmarks, nil
}

func (s *PostgresStore) CreateBookmark(ctx context.Context, userID uuid.UUID, input NewBookmark) (*Bookmark, error) {
	bookmark := newBookmark(userID, input, s.now())

	_, err := s.pool.Exec(ctx, `
		INSERT INTO bookmarks (
			id, user_id, title, url, url_to_image, source_name,
			published_at, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		bookmark.ID,
		bookmark.UserID,
		bookmark.Title,
		bookmark.URL,
		bookmark.URLToImage,
		bookmark.SourceName,
		bookmark.PublishedAt,
		bookmark.Description,
		bookmark.CreatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, ErrDuplicateBookmark
		}
		return nil, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return bookmark, nil
}

func (s *PostgresStore) DeleteBookmark(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM bookmarks WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
