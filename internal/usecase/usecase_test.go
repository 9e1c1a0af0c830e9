package usecase_test

import (
	"context"
	"errors"
	"time"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/internal/repository/memory"
	"go-candidate-scout/internal/repository/saved"
	"go-candidate-scout/internal/usecase"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/validation"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockDirectoryRepo struct {
	mock.Mock
}

func (m *MockDirectoryRepo) FetchBatch(ctx context.Context) ([]domain.IdentityRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IdentityRef), args.Error(1)
}

func (m *MockDirectoryRepo) FetchProfile(ctx context.Context, login string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func profile(id int64, login string) *domain.CandidateProfile {
	return &domain.CandidateProfile{
		ID:        id,
		Login:     login,
		AvatarURL: "https://avatars.example/u/" + login,
		HTMLURL:   "https://github.com/" + login,
	}
}

func refs(logins ...string) []domain.IdentityRef {
	out := make([]domain.IdentityRef, len(logins))
	for i, l := range logins {
		out[i] = domain.IdentityRef{ID: int64(i + 1), Login: l}
	}
	return out
}

var (
	errRateLimited = &apperror.APIError{Status: 403, Message: "API rate limit exceeded for user ID 1."}
	errNotFound    = &apperror.APIError{Status: 404, Message: "Not Found"}
	errBoom        = errors.New("connection reset by peer")
)

// recordingSleeper captures requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newSavedUsecase(opts ...usecase.SavedOption) (domain.SavedCandidateUsecase, domain.KeyValueStore) {
	store := memory.NewKVStore()
	v := validation.New()
	repo := saved.NewSavedCandidateRepository(store, v)
	return usecase.NewSavedCandidateUsecase(repo, v, "en", opts...), store
}
