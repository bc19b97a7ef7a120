package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitterai/pkg/logger"
	"twitterai/pkg/models"
)

// fakeContentAPI is an in-memory roster server with version-token CAS
type fakeContentAPI struct {
	mu       sync.Mutex
	version  int
	accounts []models.AccountSpec
	puts     int
}

func newFakeContentAPI(accounts ...models.AccountSpec) *fakeContentAPI {
	return &fakeContentAPI{version: 1, accounts: accounts}
}

func (f *fakeContentAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(rosterDocument{
				Version:  fmt.Sprintf("v%d", f.version),
				Accounts: f.accounts,
			})
		case http.MethodPut:
			f.puts++
			if r.Header.Get("If-Match") != fmt.Sprintf("v%d", f.version) {
				w.WriteHeader(http.StatusConflict)
				return
			}
			var doc rosterDocument
			if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.accounts = doc.Accounts
			f.version++
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// bump simulates another editor committing a change
func (f *fakeContentAPI) bump(accounts []models.AccountSpec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = accounts
	f.version++
}

func TestRemoteFetch(t *testing.T) {
	api := newFakeContentAPI(
		models.AccountSpec{Username: "openai", DisplayName: "OpenAI", Category: "ai"},
		models.AccountSpec{Username: "fresh"},
	)
	server := httptest.NewServer(api.handler())
	defer server.Close()

	store := NewRemoteStore(server.URL, "", logger.NewNop())
	accounts, version, err := store.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1", version)
	require.Len(t, accounts, 2)
	assert.Equal(t, "uncategorized", accounts[1].Category, "defaults applied on fetch")
}

func TestRemotePutStaleToken(t *testing.T) {
	api := newFakeContentAPI(models.AccountSpec{Username: "a"})
	server := httptest.NewServer(api.handler())
	defer server.Close()

	store := NewRemoteStore(server.URL, "", logger.NewNop())
	err := store.Put(context.Background(), nil, "v999")
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestApplyCleanWrite(t *testing.T) {
	api := newFakeContentAPI(models.AccountSpec{Username: "a", DisplayName: "A", Category: "ai"})
	server := httptest.NewServer(api.handler())
	defer server.Close()

	store := NewRemoteStore(server.URL, "secret", logger.NewNop())
	err := store.Apply(context.Background(), func(accounts []models.AccountSpec) []models.AccountSpec {
		return append(accounts, models.AccountSpec{Username: "b", DisplayName: "B", Category: "web3"})
	})
	require.NoError(t, err)

	assert.Equal(t, 1, api.puts)
	require.Len(t, api.accounts, 2)
	assert.Equal(t, "b", api.accounts[1].Username)
}

func TestApplyReappliesDeltaAfterConflict(t *testing.T) {
	api := newFakeContentAPI(models.AccountSpec{Username: "a", DisplayName: "A", Category: "ai"})
	server := httptest.NewServer(api.handler())
	defer server.Close()

	// Another editor commits between our read and write
	raced := false
	store := NewRemoteStore(server.URL, "", logger.NewNop())
	err := store.Apply(context.Background(), func(accounts []models.AccountSpec) []models.AccountSpec {
		if !raced {
			raced = true
			api.bump(append(accounts, models.AccountSpec{Username: "rival", DisplayName: "Rival", Category: "ai"}))
		}
		return append(accounts, models.AccountSpec{Username: "mine", DisplayName: "Mine", Category: "web3"})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, api.puts, "conflict then successful rewrite")
	usernames := make([]string, 0, len(api.accounts))
	for _, acc := range api.accounts {
		usernames = append(usernames, acc.Username)
	}
	assert.Contains(t, usernames, "rival", "the rival edit survives")
	assert.Contains(t, usernames, "mine", "the pending edit is reapplied on the fresh read")
}

func TestApplyGivesUpAfterSecondConflict(t *testing.T) {
	api := newFakeContentAPI(models.AccountSpec{Username: "a", DisplayName: "A", Category: "ai"})
	server := httptest.NewServer(api.handler())
	defer server.Close()

	store := NewRemoteStore(server.URL, "", logger.NewNop())
	err := store.Apply(context.Background(), func(accounts []models.AccountSpec) []models.AccountSpec {
		// Always race: every write goes out with a stale token
		api.bump(accounts)
		return accounts
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, 2, api.puts)
}
