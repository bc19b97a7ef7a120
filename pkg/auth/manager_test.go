package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitterai/pkg/logger"
)

func TestParseSession(t *testing.T) {
	t.Run("envelope format", func(t *testing.T) {
		data := []byte(`{"cookies":{"auth_token":"abc","ct0":"def"},"saved_at":"2026-08-20T10:00:00Z"}`)
		sess, err := ParseSession(data)
		require.NoError(t, err)
		assert.Equal(t, "abc", sess.Cookies["auth_token"])
		assert.Equal(t, 2026, sess.SavedAt.Year())
	})

	t.Run("raw browser export", func(t *testing.T) {
		data := []byte(`{"auth_token":"abc","ct0":"def"}`)
		sess, err := ParseSession(data)
		require.NoError(t, err)
		assert.Equal(t, "def", sess.Cookies["ct0"])
		assert.False(t, sess.SavedAt.IsZero(), "raw export gets stamped with now")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseSession([]byte(`not json`))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseSession([]byte(`{}`))
		assert.Error(t, err)
	})
}

func TestCookieHeaderDeterministic(t *testing.T) {
	sess := &Session{Cookies: map[string]string{"ct0": "2", "auth_token": "1", "twid": "3"}}
	expected := "auth_token=1; ct0=2; twid=3"
	for i := 0; i < 5; i++ {
		assert.Equal(t, expected, sess.CookieHeader())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := &Session{Cookies: map[string]string{"auth_token": "abc"}, SavedAt: time.Now()}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.Cookies["auth_token"])

	require.NoError(t, store.Delete())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerFreshnessWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	manager := NewManagerWithStores([]SessionStore{store}, 7*24*time.Hour, logger.NewNop())

	t.Run("missing", func(t *testing.T) {
		_, err := manager.Load()
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("fresh", func(t *testing.T) {
		sess := &Session{
			Cookies: map[string]string{"auth_token": "abc"},
			SavedAt: time.Now().Add(-24 * time.Hour),
		}
		require.NoError(t, store.Save(sess))

		loaded, err := manager.Load()
		require.NoError(t, err)
		assert.Equal(t, "abc", loaded.Cookies["auth_token"])
	})

	t.Run("stale", func(t *testing.T) {
		sess := &Session{
			Cookies: map[string]string{"auth_token": "abc"},
			SavedAt: time.Now().Add(-8 * 24 * time.Hour),
		}
		require.NoError(t, store.Save(sess))

		_, err := manager.Load()
		assert.ErrorIs(t, err, ErrSessionStale)
	})
}

func TestManagerBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	manager := NewManagerWithStores([]SessionStore{store}, 7*24*time.Hour, logger.NewNop())

	require.NoError(t, manager.Bootstrap(`{"auth_token":"from-env"}`))

	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", loaded.Cookies["auth_token"])

	// An existing session is not overwritten
	require.NoError(t, manager.Bootstrap(`{"auth_token":"other"}`))
	loaded, err = manager.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", loaded.Cookies["auth_token"])

	// Empty env value is a no-op
	assert.NoError(t, manager.Bootstrap(""))
}
