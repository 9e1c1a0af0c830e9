package usecase

import (
	"context"
	"sync"
	"time"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const (
	RateLimitMessage    = "Please wait a few minutes before trying again - API rate limit reached."
	NoCandidatesMessage = "No valid candidates found. Try again."
	NoUsersMessage      = "No users available"
	cancelledMessage    = "Error loading candidate"
)

// AcquisitionConfig paces requests to the directory.
type AcquisitionConfig struct {
	BatchDelay   time.Duration
	ProfileDelay time.Duration
}

func DefaultAcquisitionConfig() AcquisitionConfig {
	return AcquisitionConfig{
		BatchDelay:   5 * time.Second,
		ProfileDelay: 2 * time.Second,
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// acquisitionSession is one scope's cursor and displayed state.
type acquisitionSession struct {
	run    sync.Mutex // one acquisition at a time per scope
	mu     sync.RWMutex
	cursor domain.AcquisitionCursor
	state  domain.AcquisitionState
}

func (s *acquisitionSession) setState(state domain.AcquisitionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *acquisitionSession) getState() domain.AcquisitionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

type acquisitionUsecase struct {
	directory domain.DirectoryRepository
	saved     domain.SavedCandidateUsecase
	validate  *validator.Validate
	cfg       AcquisitionConfig
	prober    domain.AvatarProber
	sleep     Sleeper

	mu       sync.Mutex
	sessions map[string]*acquisitionSession
}

type AcquisitionOption func(*acquisitionUsecase)

// WithAvatarProber skips candidates whose avatar does not download and decode.
func WithAvatarProber(p domain.AvatarProber) AcquisitionOption {
	return func(u *acquisitionUsecase) { u.prober = p }
}

func WithSleeper(s Sleeper) AcquisitionOption {
	return func(u *acquisitionUsecase) { u.sleep = s }
}

func NewAcquisitionUsecase(
	directory domain.DirectoryRepository,
	saved domain.SavedCandidateUsecase,
	validate *validator.Validate,
	cfg AcquisitionConfig,
	opts ...AcquisitionOption,
) domain.AcquisitionUsecase {
	u := &acquisitionUsecase{
		directory: directory,
		saved:     saved,
		validate:  validate,
		cfg:       cfg,
		sleep:     sleepContext,
		sessions:  make(map[string]*acquisitionSession),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *acquisitionUsecase) session(ctx context.Context) *acquisitionSession {
	scope := domain.ScopeFromContext(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.sessions[scope]
	if !ok {
		s = &acquisitionSession{state: domain.EmptyState()}
		u.sessions[scope] = s
	}
	return s
}

func (u *acquisitionUsecase) Current(ctx context.Context) domain.AcquisitionState {
	return u.session(ctx).getState()
}

// Next advances to the next displayable candidate. Failures become an error
// state; the returned error is non-nil only when ctx ends first.
func (u *acquisitionUsecase) Next(ctx context.Context) (domain.AcquisitionState, error) {
	s := u.session(ctx)
	s.run.Lock()
	defer s.run.Unlock()

	s.setState(domain.LoadingState())

	state, err := u.acquire(ctx, s)
	if err != nil {
		s.setState(domain.ErrorState(cancelledMessage))
		return s.getState(), err
	}
	s.setState(state)
	return state, nil
}

func (u *acquisitionUsecase) AcceptCurrent(ctx context.Context) (domain.AcquisitionState, error) {
	current := u.Current(ctx)
	if current.Status != domain.StatusReady || current.Candidate == nil {
		logger.Log.Error("Invalid current candidate", "status", current.Status)
		return current, apperror.BadRequest("No candidate is ready to accept")
	}

	if err := u.saved.Accept(ctx, current.Candidate); err != nil {
		return current, err
	}
	return u.Next(ctx)
}

func (u *acquisitionUsecase) acquire(ctx context.Context, s *acquisitionSession) (domain.AcquisitionState, error) {
	if s.cursor.Exhausted() {
		if err := u.sleep(ctx, u.cfg.BatchDelay); err != nil {
			return domain.AcquisitionState{}, err
		}
		refs, err := u.directory.FetchBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return domain.AcquisitionState{}, ctx.Err()
			}
			logger.Log.Error("Error fetching users", "error", err)
			return domain.ErrorState(batchFailureMessage(err)), nil
		}
		if len(refs) == 0 {
			return domain.ErrorState(NoUsersMessage), nil
		}
		s.cursor.Reset(refs)
	}

	for !s.cursor.Exhausted() {
		if err := u.sleep(ctx, u.cfg.ProfileDelay); err != nil {
			return domain.AcquisitionState{}, err
		}

		ref := s.cursor.Current()
		profile, err := u.directory.FetchProfile(ctx, ref.Login)
		if err != nil {
			if ctx.Err() != nil {
				return domain.AcquisitionState{}, ctx.Err()
			}
			switch apperror.Classify(err) {
			case apperror.KindRateLimited:
				return domain.ErrorState(RateLimitMessage), nil
			case apperror.KindFatal:
				return domain.ErrorState(err.Error()), nil
			}
			logger.Log.Info("Skipping invalid user", "login", ref.Login, "error", err)
			s.cursor.Advance()
			continue
		}

		if reason := u.rejectReason(ctx, profile); reason != "" {
			logger.Log.Info("Skipping user", "login", ref.Login, "reason", reason)
			s.cursor.Advance()
			continue
		}

		s.cursor.Advance()
		return domain.ReadyState(profile), nil
	}

	return domain.ErrorState(NoCandidatesMessage), nil
}

func (u *acquisitionUsecase) rejectReason(ctx context.Context, profile *domain.CandidateProfile) string {
	if err := u.validate.Var(profile.AvatarURL, "displayable_avatar"); err != nil {
		return "no valid image"
	}
	if u.prober != nil {
		if err := u.prober.Probe(ctx, profile.AvatarURL); err != nil {
			return "avatar failed to load: " + err.Error()
		}
	}
	return ""
}

func batchFailureMessage(err error) string {
	if apperror.Classify(err) == apperror.KindRateLimited {
		return RateLimitMessage
	}
	return err.Error()
}
