package auth

import (
	"errors"
	"fmt"
	"time"

	"twitterai/pkg/config"
	"twitterai/pkg/logger"
)

// SessionStore is the interface for persisting the platform session blob
type SessionStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Delete() error
}

// Manager handles session storage with fallback mechanisms: system keychain
// first, plain session file second (the operator already holds the cookie
// export in plaintext, so the file fallback adds no new exposure).
type Manager struct {
	stores []SessionStore
	maxAge time.Duration
	logger logger.Logger
}

// NewManager creates a session manager from the platform configuration
func NewManager(cfg *config.TwitterConfig, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Get()
	}

	var stores []SessionStore
	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	} else {
		log.DebugWithFields("keyring unavailable, using file store only", map[string]interface{}{
			"error": err.Error(),
		})
	}
	stores = append(stores, NewFileStore(cfg.SessionFile))

	return &Manager{
		stores: stores,
		maxAge: cfg.SessionMaxAge,
		logger: log,
	}
}

// NewManagerWithStores creates a manager over explicit stores. Used by tests.
func NewManagerWithStores(stores []SessionStore, maxAge time.Duration, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Get()
	}
	return &Manager{stores: stores, maxAge: maxAge, logger: log}
}

// Load returns the cached session from the first store that has one,
// provided it is younger than the freshness window. A stale session is an
// authentication failure: there is no password login path, the operator
// must re-export cookies.
func (m *Manager) Load() (*Session, error) {
	var lastErr error
	for _, store := range m.stores {
		sess, err := store.Load()
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				lastErr = err
			}
			continue
		}

		if !sess.IsFresh(m.maxAge) {
			m.logger.WarnWithFields("cached session is stale", map[string]interface{}{
				"age":     sess.Age().Round(time.Hour).String(),
				"max_age": m.maxAge.String(),
			})
			return nil, fmt.Errorf("%w: saved %s ago, limit %s; re-export browser cookies",
				ErrSessionStale, sess.Age().Round(time.Hour), m.maxAge)
		}

		m.logger.DebugWithFields("loaded cached session", map[string]interface{}{
			"age":     sess.Age().Round(time.Minute).String(),
			"cookies": len(sess.Cookies),
		})
		return sess, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to load session: %w", lastErr)
	}
	return nil, ErrSessionNotFound
}

// Save writes the session to every store that will take it; success of at
// least one is enough.
func (m *Manager) Save(sess *Session) error {
	if len(sess.Cookies) == 0 {
		return errors.New("session has no cookies")
	}
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now()
	}

	var lastErr error
	saved := false
	for _, store := range m.stores {
		if err := store.Save(sess); err != nil {
			lastErr = err
			continue
		}
		saved = true
	}

	if !saved {
		return fmt.Errorf("failed to save session: %w", lastErr)
	}
	return nil
}

// Delete removes the session from every store
func (m *Manager) Delete() error {
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Bootstrap materializes a session from an environment-provided blob when
// no session is cached yet. Used on CI runners where the cookie export is
// delivered as a secret.
func (m *Manager) Bootstrap(raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := m.Load(); err == nil {
		return nil
	}

	sess, err := ParseSession([]byte(raw))
	if err != nil {
		return fmt.Errorf("invalid session from environment: %w", err)
	}

	m.logger.Info("bootstrapping session from environment")
	return m.Save(sess)
}
