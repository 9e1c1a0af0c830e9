package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/internal/usecase"
	"go-candidate-scout/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAcquisition(dir *MockDirectoryRepo, sleeper *recordingSleeper, opts ...usecase.AcquisitionOption) domain.AcquisitionUsecase {
	savedUC, _ := newSavedUsecase()
	opts = append(opts, usecase.WithSleeper(sleeper.Sleep))
	return usecase.NewAcquisitionUsecase(dir, savedUC, validation.New(), usecase.DefaultAcquisitionConfig(), opts...)
}

func TestAcquisitionSkipsFailedAndPlaceholderProfiles(t *testing.T) {
	dir := new(MockDirectoryRepo)
	sleeper := &recordingSleeper{}
	uc := newAcquisition(dir, sleeper)
	ctx := context.Background()

	missing := profile(3, "carol")
	missing.AvatarURL = "https://github.com/images/gravatars/missing.png"

	dir.On("FetchBatch", ctx).Return(refs("bob", "carol", "alice"), nil).Once()
	dir.On("FetchProfile", ctx, "bob").Return(nil, errNotFound).Once()
	dir.On("FetchProfile", ctx, "carol").Return(missing, nil).Once()
	dir.On("FetchProfile", ctx, "alice").Return(profile(1, "alice"), nil).Once()

	state, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, state.Status)
	assert.Equal(t, "alice", state.Candidate.Login)
	assert.Equal(t, state, uc.Current(ctx))

	assert.Equal(t, []time.Duration{5 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, sleeper.delays)
	dir.AssertExpectations(t)
}

func TestAcquisitionReturnsFirstValidAndKeepsPosition(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})
	ctx := context.Background()

	dir.On("FetchBatch", ctx).Return(refs("alice", "bob"), nil).Once()
	dir.On("FetchProfile", ctx, "alice").Return(profile(1, "alice"), nil).Once()
	dir.On("FetchProfile", ctx, "bob").Return(profile(2, "bob"), nil).Once()

	first, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Candidate.Login)

	second, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", second.Candidate.Login)

	dir.AssertNumberOfCalls(t, "FetchBatch", 1)
}

func TestAcquisitionRefillsExhaustedCursor(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})
	ctx := context.Background()

	dir.On("FetchBatch", ctx).Return(refs("alice"), nil).Once()
	dir.On("FetchProfile", ctx, "alice").Return(profile(1, "alice"), nil).Once()
	dir.On("FetchBatch", ctx).Return(refs("zed"), nil).Once()
	dir.On("FetchProfile", ctx, "zed").Return(profile(26, "zed"), nil).Once()

	_, err := uc.Next(ctx)
	require.NoError(t, err)
	state, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "zed", state.Candidate.Login)
	dir.AssertExpectations(t)
}

func TestAcquisitionAbortsOnFirstRateLimit(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})
	ctx := context.Background()

	dir.On("FetchBatch", ctx).Return(refs("a", "b", "c"), nil).Once()
	dir.On("FetchProfile", ctx, mock.Anything).Return(nil, errRateLimited)

	state, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, state.Status)
	assert.Equal(t, usecase.RateLimitMessage, state.Message)
	dir.AssertNumberOfCalls(t, "FetchProfile", 1)
}

func TestAcquisitionExhaustedBatch(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})
	ctx := context.Background()

	dir.On("FetchBatch", ctx).Return(refs("a", "b"), nil).Once()
	dir.On("FetchProfile", ctx, "a").Return(nil, errBoom).Once()
	dir.On("FetchProfile", ctx, "b").Return(nil, errNotFound).Once()

	state, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorState(usecase.NoCandidatesMessage), state)
}

func TestAcquisitionBatchFailures(t *testing.T) {
	tests := []struct {
		name    string
		refs    []domain.IdentityRef
		err     error
		message string
	}{
		{"rate limited", nil, errRateLimited, usecase.RateLimitMessage},
		{"other failure", nil, errBoom, errBoom.Error()},
		{"empty batch", []domain.IdentityRef{}, nil, usecase.NoUsersMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := new(MockDirectoryRepo)
			uc := newAcquisition(dir, &recordingSleeper{})
			ctx := context.Background()

			if tt.refs != nil {
				dir.On("FetchBatch", ctx).Return(tt.refs, nil)
			} else {
				dir.On("FetchBatch", ctx).Return(nil, tt.err)
			}

			state, err := uc.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusError, state.Status)
			assert.Equal(t, tt.message, state.Message)
			dir.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
		})
	}
}

func TestAcquisitionAvatarProbeSkips(t *testing.T) {
	dir := new(MockDirectoryRepo)
	prober := new(MockProber)
	uc := newAcquisition(dir, &recordingSleeper{}, usecase.WithAvatarProber(prober))
	ctx := context.Background()

	broken := profile(1, "broken")
	dir.On("FetchBatch", ctx).Return(refs("broken", "fine"), nil).Once()
	dir.On("FetchProfile", ctx, "broken").Return(broken, nil).Once()
	dir.On("FetchProfile", ctx, "fine").Return(profile(2, "fine"), nil).Once()
	prober.On("Probe", ctx, broken.AvatarURL).Return(assert.AnError).Once()
	prober.On("Probe", ctx, "https://avatars.example/u/fine").Return(nil).Once()

	state, err := uc.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fine", state.Candidate.Login)
	prober.AssertExpectations(t)
}

func TestAcquisitionCancelled(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := uc.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StatusError, state.Status)
	dir.AssertNotCalled(t, "FetchBatch", mock.Anything)
}

func TestAcquisitionScopesAreIndependent(t *testing.T) {
	dir := new(MockDirectoryRepo)
	uc := newAcquisition(dir, &recordingSleeper{})

	alice := domain.WithScope(context.Background(), "alice")
	bob := domain.WithScope(context.Background(), "bob")

	dir.On("FetchBatch", alice).Return(refs("x"), nil).Once()
	dir.On("FetchProfile", alice, "x").Return(profile(1, "x"), nil).Once()

	_, err := uc.Next(alice)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReady, uc.Current(alice).Status)
	assert.Equal(t, domain.EmptyState(), uc.Current(bob))
}

func TestAcceptCurrent(t *testing.T) {
	dir := new(MockDirectoryRepo)
	savedUC, _ := newSavedUsecase()
	uc := usecase.NewAcquisitionUsecase(dir, savedUC, validation.New(), usecase.DefaultAcquisitionConfig(),
		usecase.WithSleeper((&recordingSleeper{}).Sleep))
	ctx := context.Background()

	_, err := uc.AcceptCurrent(ctx)
	assert.Error(t, err, "nothing is ready yet")

	dir.On("FetchBatch", ctx).Return(refs("alice", "bob"), nil).Once()
	dir.On("FetchProfile", ctx, "alice").Return(profile(1, "alice"), nil).Once()
	dir.On("FetchProfile", ctx, "bob").Return(profile(2, "bob"), nil).Once()

	_, err = uc.Next(ctx)
	require.NoError(t, err)

	next, err := uc.AcceptCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", next.Candidate.Login)

	view, err := savedUC.Load(ctx)
	require.NoError(t, err)
	require.Len(t, view.Candidates, 1)
	assert.Equal(t, "alice", view.Candidates[0].Login)
}
