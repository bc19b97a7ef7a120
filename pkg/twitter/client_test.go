package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitterai/pkg/auth"
	"twitterai/pkg/config"
	errs "twitterai/pkg/errors"
	"twitterai/pkg/logger"
)

func testClient(serverURL string) *Client {
	cfg := &config.TwitterConfig{
		BaseURL:       serverURL,
		UserAgent:     "test-agent",
		ProbeUsername: "probe",
		Timeout:       5 * time.Second,
	}
	sess := &auth.Session{
		Cookies: map[string]string{"auth_token": "tok", "ct0": "csrf"},
		SavedAt: time.Now(),
	}
	return NewClient(cfg, sess, logger.NewNop())
}

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "probe", r.URL.Query().Get("screen_name"))
		assert.Contains(t, r.Header.Get("Cookie"), "auth_token=tok")
		assert.Equal(t, "csrf", r.Header.Get("x-csrf-token"))
		w.Write([]byte(`{"id_str":"123","screen_name":"probe","name":"Probe"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	user, err := client.GetUser(context.Background(), "probe")
	require.NoError(t, err)
	assert.Equal(t, "123", user.ID)
	assert.Equal(t, "probe", user.ScreenName)
}

func TestGetUserClassification(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected errs.ErrorType
	}{
		{
			"not found",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"errors":[{"code":50,"message":"User not found."}]}`))
			},
			errs.ErrorTypeNotFound,
		},
		{
			"rate limited",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			errs.ErrorTypeRateLimit,
		},
		{
			"auth rejected",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			errs.ErrorTypeAuth,
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			errs.ErrorTypeServerError,
		},
		{
			"suspended account",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id_str":"9","screen_name":"gone","suspended":true}`))
			},
			errs.ErrorTypeNotFound,
		},
		{
			"protected account",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id_str":"9","screen_name":"priv","protected":true}`))
			},
			errs.ErrorTypeNotFound,
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			errs.ErrorTypeValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(test.handler)
			defer server.Close()

			client := testClient(server.URL)
			_, err := client.GetUser(context.Background(), "whoever")
			require.Error(t, err)
			assert.Equal(t, test.expected, errs.TypeOf(err))
		})
	}
}

func TestGetUserNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := testClient(server.URL)
	_, err := client.GetUser(context.Background(), "whoever")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
}

func TestGetUserTweets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "123", r.URL.Query().Get("user_id"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		w.Write([]byte(`[
			{"id_str":"2001","full_text":"newest","created_at":"Mon Jan 06 15:04:05 +0000 2025","favorite_count":5},
			{"id_str":"2000","full_text":"older","created_at":"Sun Jan 05 15:04:05 +0000 2025","in_reply_to_status_id_str":"1999"}
		]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	tweets, err := client.GetUserTweets(context.Background(), "123", 2)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "2001", tweets[0].ID)
	assert.Equal(t, 5, tweets[0].FavoriteCount)
	assert.False(t, tweets[0].IsReply())
	assert.True(t, tweets[1].IsReply())
}

func TestVerify(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id_str":"1","screen_name":"probe"}`))
		}))
		defer server.Close()

		client := testClient(server.URL)
		assert.NoError(t, client.Verify(context.Background()))
	})

	t.Run("rejected session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := testClient(server.URL)
		err := client.Verify(context.Background())
		require.Error(t, err)
		assert.Equal(t, errs.ErrorTypeAuth, errs.TypeOf(err))
	})
}

func TestTweetURL(t *testing.T) {
	assert.Equal(t, "https://x.com/karpathy/status/42", TweetURL("karpathy", "42"))
}
