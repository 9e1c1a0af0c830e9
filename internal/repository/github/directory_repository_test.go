package github_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-candidate-scout/internal/repository/github"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/logger"
	"go-candidate-scout/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() int) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, func() int { return 42 }
}

func TestFetchBatch(t *testing.T) {
	var gotAuth, gotAccept, gotSince string
	srv, since := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotSince = r.URL.Query().Get("since")
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"login":"alice"},{"id":"x","login":"bad"},{"id":3,"login":"carol"}]`))
	})

	repo := github.NewDirectoryRepository(
		github.Config{Token: "secret", BaseURL: srv.URL, HTTPTimeout: time.Second},
		validation.New(),
		github.WithSinceSource(since),
	)

	refs, err := repo.FetchBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "alice", refs[0].Login)
	assert.Equal(t, "carol", refs[1].Login)
	assert.Equal(t, "token secret", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "42", gotSince)
}

func TestFetchProfile(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octo", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":7,"login":"octo","name":"Octo Cat","avatar_url":"https://avatars.example/7","html_url":"https://github.com/octo","location":null,
			"node_id": "MDQ6VXNlcjc=",
			"site_admin": false
		}`))
	})

	repo := github.NewDirectoryRepository(github.Config{Token: "secret", BaseURL: srv.URL}, validation.New())

	profile, err := repo.FetchProfile(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, int64(7), profile.ID)
	assert.Equal(t, "Octo Cat", profile.DisplayName())
	assert.Nil(t, profile.Location)
	assert.Contains(t, string(profile.Raw), `"node_id":"MDQ6VXNlcjc="`)
	assert.Contains(t, string(profile.Raw), `"site_admin":false`)
}

func TestFetchProfileInvalidShape(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"login":"octo"}`))
	})

	repo := github.NewDirectoryRepository(github.Config{Token: "secret", BaseURL: srv.URL}, validation.New())

	_, err := repo.FetchProfile(context.Background(), "octo")
	var valErr *apperror.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json message", http.StatusForbidden, `{"message":"API rate limit exceeded for user ID 1."}`, "API rate limit exceeded for user ID 1."},
		{"not json", http.StatusNotFound, `<html>nope</html>`, "Not Found"},
		{"non-string message", http.StatusBadGateway, `{"message":12}`, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			repo := github.NewDirectoryRepository(github.Config{Token: "secret", BaseURL: srv.URL}, validation.New())

			_, err := repo.FetchProfile(context.Background(), "ghost")
			var apiErr *apperror.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestMissingTokenFailsBeforeRequest(t *testing.T) {
	called := false
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	repo := github.NewDirectoryRepository(github.Config{BaseURL: srv.URL}, validation.New())

	_, err := repo.FetchBatch(context.Background())
	var cfgErr *apperror.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, apperror.KindFatal, apperror.Classify(err))
	assert.False(t, called)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "abc")
	t.Setenv("GITHUB_API_BASE_URL", "https://ghe.example/api/v3/")
	t.Setenv("GITHUB_HTTP_TIMEOUT", "3s")

	cfg := github.LoadConfigFromEnv()
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "https://ghe.example/api/v3", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestLoadConfigFromEnvWarnsOnBadTimeout(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.Log = prev })

	t.Setenv("GITHUB_TOKEN", "abc")
	t.Setenv("GITHUB_HTTP_TIMEOUT", "soon")

	cfg := github.LoadConfigFromEnv()
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Contains(t, buf.String(), "HTTPTimeout")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
