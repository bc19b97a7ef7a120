package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrSessionNotFound means no cached session exists in any store
var ErrSessionNotFound = errors.New("no cached session found")

// ErrSessionStale means the cached session is older than the freshness
// window and must be re-exported from the browser.
var ErrSessionStale = errors.New("cached session is stale")

// Session is the opaque platform session blob: the cookies exported from a
// logged-in browser plus the time they were saved.
type Session struct {
	Cookies map[string]string `json:"cookies"`
	SavedAt time.Time         `json:"saved_at"`
}

// ParseSession decodes a session blob. Raw cookie exports (a flat
// name→value object without the envelope) are accepted too, stamped with
// the current time.
func ParseSession(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err == nil && len(sess.Cookies) > 0 {
		if sess.SavedAt.IsZero() {
			sess.SavedAt = time.Now()
		}
		return &sess, nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unrecognized session blob: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("session blob contains no cookies")
	}
	return &Session{Cookies: raw, SavedAt: time.Now()}, nil
}

// Age returns how long ago the session was saved
func (s *Session) Age() time.Duration {
	return time.Since(s.SavedAt)
}

// IsFresh reports whether the session is younger than the freshness window
func (s *Session) IsFresh(maxAge time.Duration) bool {
	return s.Age() < maxAge
}

// CookieHeader renders the cookies as a request header value, sorted by
// name so the output is deterministic.
func (s *Session) CookieHeader() string {
	names := make([]string, 0, len(s.Cookies))
	for name := range s.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+s.Cookies[name])
	}
	return strings.Join(pairs, "; ")
}
