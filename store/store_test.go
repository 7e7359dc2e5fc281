package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// steppingClock returns storeEpoch and advances one second per call.
func steppingClock() func() time.Time {
	next := storeEpoch
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func setClock(s Store, now func() time.Time) {
	switch st := s.(type) {
	case *SQLiteStore:
		st.now = now
	case *PostgresStore:
		st.now = now
	}
}

func createTestUser(t *testing.T, s Store, username string) *User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), NewUser{
		Username:     username,
		PasswordHash: "hash-" + username,
	})
	require.NoError(t, err, "should create user")
	return user
}

func strPtr(s string) *string { return &s }

// runStoreTests exercises the Store contract against a backend.
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateUser", func(t *testing.T) {
		s := open(t)

		user, err := s.CreateUser(ctx, NewUser{
			Username:     "ada",
			PasswordHash: "hashed",
			Preferences:  []string{"sports", "tech"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)

		byID, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", byID.Username)
		assert.Equal(t, "hashed", byID.PasswordHash)
		assert.Equal(t, []string{"sports", "tech"}, byID.Preferences)
		assert.WithinDuration(t, user.CreatedAt, byID.CreatedAt, time.Millisecond)

		byName, err := s.GetUserByUsername(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("CreateUserEmptyPreferences", func(t *testing.T) {
		s := open(t)
		user := createTestUser(t, s, "grace")

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.Preferences)
		assert.Empty(t, got.Preferences)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		s := open(t)
		createTestUser(t, s, "ada")

		_, err := s.CreateUser(ctx, NewUser{Username: "ada", PasswordHash: "other"})
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		s := open(t)

		_, err := s.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Sessions", func(t *testing.T) {
		s := open(t)
		user := createTestUser(t, s, "ada")

		session := Session{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			CreatedAt: storeEpoch,
			ExpiresAt: storeEpoch.Add(24 * time.Hour),
		}
		require.NoError(t, s.CreateSession(ctx, session))

		got, err := s.GetSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))
		assert.False(t, got.Expired(storeEpoch))
		assert.True(t, got.Expired(storeEpoch.Add(24*time.Hour)))

		require.NoError(t, s.DeleteSession(ctx, session.Token))
		_, err = s.GetSession(ctx, session.Token)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, session.Token), ErrSessionNotFound)
	})

	t.Run("DeleteExpiredSessions", func(t *testing.T) {
		s := open(t)
		user := createTestUser(t, s, "ada")

		for i, ttl := range []time.Duration{-time.Hour, -time.Minute, time.Hour} {
			require.NoError(t, s.CreateSession(ctx, Session{
				Token:     "token-" + string(rune('a'+i)),
				UserID:    user.ID,
				CreatedAt: storeEpoch.Add(-2 * time.Hour),
				ExpiresAt: storeEpoch.Add(ttl),
			}))
		}

		removed, err := s.DeleteExpiredSessions(ctx, storeEpoch)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		_, err = s.GetSession(ctx, "token-c")
		assert.NoError(t, err, "live session should remain")
	})

	t.Run("Bookmarks", func(t *testing.T) {
		s := open(t)
		setClock(s, steppingClock())
		user := createTestUser(t, s, "ada")

		published := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
		first, err := s.CreateBookmark(ctx, user.ID, NewBookmark{
			Title:       "First",
			URL:         "http://example.com/1",
			URLToImage:  strPtr("http://img/1.jpg"),
			SourceName:  strPtr("OG Nigeria"),
			PublishedAt: &published,
			Description: strPtr("about the first"),
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, first.UserID)

		_, err = s.CreateBookmark(ctx, user.ID, NewBookmark{Title: "Second", URL: "http://example.com/2"})
		require.NoError(t, err)

		bookmarks, err := s.ListBookmarks(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, bookmarks, 2)
		assert.Equal(t, "Second", bookmarks[0].Title, "newest first")
		assert.Nil(t, bookmarks[0].URLToImage)
		assert.Nil(t, bookmarks[0].PublishedAt)

		saved := bookmarks[1]
		assert.Equal(t, first.ID, saved.ID)
		require.NotNil(t, saved.URLToImage)
		assert.Equal(t, "http://img/1.jpg", *saved.URLToImage)
		require.NotNil(t, saved.SourceName)
		assert.Equal(t, "OG Nigeria", *saved.SourceName)
		require.NotNil(t, saved.PublishedAt)
		assert.True(t, saved.PublishedAt.Equal(published))
		require.NotNil(t, saved.Description)
		assert.Equal(t, "about the first", *saved.Description)
	})

	t.Run("BookmarksEmpty", func(t *testing.T) {
		s := open(t)
		user := createTestUser(t, s, "ada")

		bookmarks, err := s.ListBookmarks(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, bookmarks)
		assert.Empty(t, bookmarks)
	})

	t.Run("DuplicateBookmark", func(t *testing.T) {
		s := open(t)
		ada := createTestUser(t, s, "ada")
		grace := createTestUser(t, s, "grace")

		article := NewBookmark{Title: "Story", URL: "http://example.com/story"}
		_, err := s.CreateBookmark(ctx, ada.ID, article)
		require.NoError(t, err)

		_, err = s.CreateBookmark(ctx, ada.ID, article)
		assert.ErrorIs(t, err, ErrDuplicateBookmark)

		_, err = s.CreateBookmark(ctx, grace.ID, article)
		assert.NoError(t, err, "another user may save the same article")
	})

	t.Run("DeleteBookmarkScopedToOwner", func(t *testing.T) {
		s := open(t)
		ada := createTestUser(t, s, "ada")
		grace := createTestUser(t, s, "grace")

		bookmark, err := s.CreateBookmark(ctx, ada.ID, NewBookmark{Title: "Story", URL: "http://example.com/story"})
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteBookmark(ctx, bookmark.ID, grace.ID), ErrBookmarkNotFound)

		bookmarks, err := s.ListBookmarks(ctx, ada.ID)
		require.NoError(t, err)
		assert.Len(t, bookmarks, 1, "bookmark should survive a delete by another user")

		require.NoError(t, s.DeleteBookmark(ctx, bookmark.ID, ada.ID))
		assert.ErrorIs(t, s.DeleteBookmark(ctx, bookmark.ID, ada.ID), ErrBookmarkNotFound)
	})
}
