package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/logger"
	"go-candidate-scout/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	// maxSince bounds the random listing offset so successive batches land on different users.
	maxSince = 100_000_000
)

type directoryRepository struct {
	cfg      Config
	client   *http.Client
	validate *validator.Validate
	since    func() int
}

// Option customizes the directory repository.
type Option func(*directoryRepository)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *directoryRepository) { r.client = c }
}

// WithSinceSource replaces the random listing offset generator.
func WithSinceSource(f func() int) Option {
	return func(r *directoryRepository) { r.since = f }
}

func NewDirectoryRepository(cfg Config, validate *validator.Validate, opts ...Option) domain.DirectoryRepository {
	r := &directoryRepository{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		validate: validate,
		since:    func() int { return rand.IntN(maxSince) + 1 },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *directoryRepository) FetchBatch(ctx context.Context) ([]domain.IdentityRef, error) {
	endpoint := r.cfg.BaseURL + "/users?since=" + strconv.Itoa(r.since())

	var raw []json.RawMessage
	if err := r.get(ctx, endpoint, &raw); err != nil {
		logger.Log.Error("Error fetching GitHub users", "error", err)
		return nil, err
	}

	refs := make([]domain.IdentityRef, 0, len(raw))
	for _, item := range raw {
		var ref domain.IdentityRef
		if err := json.Unmarshal(item, &ref); err != nil {
			continue
		}
		if err := r.validate.Struct(ref); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) != len(raw) {
		logger.Log.Warn("Dropped malformed identities from batch", "received", len(raw), "kept", len(refs))
	}
	return refs, nil
}

func (r *directoryRepository) FetchProfile(ctx context.Context, login string) (*domain.CandidateProfile, error) {
	endpoint := r.cfg.BaseURL + "/users/" + url.PathEscape(login)

	var payload json.RawMessage
	if err := r.get(ctx, endpoint, &payload); err != nil {
		logger.Log.Error("Error fetching GitHub user", "login", login, "error", err)
		return nil, err
	}

	var profile domain.CandidateProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, &apperror.ValidationError{Reason: "malformed directory payload: " + err.Error()}
	}
	if err := validation.Check(r.validate, &profile); err != nil {
		return nil, err
	}

	// Keep the full payload so an accepted profile is stored with every field the directory sent.
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err == nil {
		profile.Raw = compact.Bytes()
	}
	return &profile, nil
}

func (r *directoryRepository) get(ctx context.Context, endpoint string, out interface{}) error {
	if r.cfg.Token == "" {
		return &apperror.ConfigurationError{
			Setting: "GITHUB_TOKEN",
			Message: "GitHub token not found; set GITHUB_TOKEN in the environment or .env file",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+r.cfg.Token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperror.ValidationError{Reason: "malformed directory payload: " + err.Error()}
	}
	return nil
}

// apiError takes the message from a JSON body when it has one, else the status text.
func apiError(resp *http.Response) *apperror.APIError {
	message := http.StatusText(resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var payload struct {
			Message *string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != nil {
			message = *payload.Message
		}
	}

	return &apperror.APIError{Status: resp.StatusCode, Message: message}
}
