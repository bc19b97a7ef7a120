package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errs "twitterai/pkg/errors"
	"twitterai/pkg/logger"
	"twitterai/pkg/models"
)

// ErrVersionConflict signals that a write carried a stale version token
var ErrVersionConflict = errs.New(errs.ErrorTypeValidation, "roster version conflict")

// Delta is a pending roster edit, applied to whatever the remote currently
// holds. It must be safe to apply more than once.
type Delta func(accounts []models.AccountSpec) []models.AccountSpec

// RemoteStore talks to the roster editor's content API with optimistic
// concurrency: reads return a version token, writes must present it.
type RemoteStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewRemoteStore creates a client for the remote roster API
func NewRemoteStore(baseURL, token string, log logger.Logger) *RemoteStore {
	if log == nil {
		log = logger.Get()
	}
	return &RemoteStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
	}
}

// rosterDocument is the content API's wire shape
type rosterDocument struct {
	Version  string               `json:"version"`
	Accounts []models.AccountSpec `json:"accounts"`
}

// Fetch reads the current roster and its version token
func (r *RemoteStore) Fetch(ctx context.Context) ([]models.AccountSpec, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, "", errs.Newf(errs.ErrorTypeUnknown, "new request: %v", err)
	}
	r.setAuth(req)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", errs.Newf(errs.ErrorTypeNetwork, "fetch roster: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", errs.FromStatusCode(resp.StatusCode, "fetch roster")
	}

	var doc rosterDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, "", errs.Newf(errs.ErrorTypeValidation, "decode roster: %v", err)
	}

	for i := range doc.Accounts {
		doc.Accounts[i].ApplyDefaults()
	}
	return doc.Accounts, doc.Version, nil
}

// Put writes the roster with the given version token. A stale token yields
// ErrVersionConflict.
func (r *RemoteStore) Put(ctx context.Context, accounts []models.AccountSpec, version string) error {
	body, err := json.Marshal(rosterDocument{Version: version, Accounts: accounts})
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "marshal roster: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return errs.Newf(errs.ErrorTypeUnknown, "new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", version)
	r.setAuth(req)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return errs.Newf(errs.ErrorTypeNetwork, "put roster: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrVersionConflict
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return errs.FromStatusCode(resp.StatusCode, "put roster")
	}
}

// Apply runs a read-modify-write cycle. On a version conflict it re-reads
// once and reapplies the delta against the fresh roster; a second conflict
// is returned to the caller.
func (r *RemoteStore) Apply(ctx context.Context, delta Delta) error {
	for attempt := 1; attempt <= 2; attempt++ {
		accounts, version, err := r.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch before edit: %w", err)
		}

		err = r.Put(ctx, delta(accounts), version)
		if err == nil {
			return nil
		}
		if err != ErrVersionConflict || attempt == 2 {
			return err
		}

		r.logger.WarnWithFields("roster write conflict, reapplying edit", map[string]interface{}{
			"stale_version": version,
		})
	}
	return ErrVersionConflict
}

func (r *RemoteStore) setAuth(req *http.Request) {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
}
