package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/audit"
	"go-candidate-scout/pkg/logger"
	"go-candidate-scout/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// savedView is one scope's table state. all keeps store order; filtered is what is shown.
type savedView struct {
	all       []domain.CandidateProfile
	filtered  []domain.CandidateProfile
	term      string
	sortField domain.SortField
	sortDir   domain.SortDirection
}

func (v *savedView) snapshot() *domain.SavedView {
	return &domain.SavedView{
		Candidates:    append([]domain.CandidateProfile{}, v.filtered...),
		Total:         len(v.all),
		SearchTerm:    v.term,
		SortField:     v.sortField,
		SortDirection: v.sortDir,
	}
}

type savedCandidateUsecase struct {
	repo     domain.SavedCandidateRepository
	validate *validator.Validate
	locale   language.Tag
	archive  domain.ObjectStore
	audit    *audit.Logger

	mu    sync.Mutex
	views map[string]*savedView
}

type SavedOption func(*savedCandidateUsecase)

// WithArchive enables Archive uploads.
func WithArchive(store domain.ObjectStore) SavedOption {
	return func(u *savedCandidateUsecase) { u.archive = store }
}

func WithAudit(l *audit.Logger) SavedOption {
	return func(u *savedCandidateUsecase) { u.audit = l }
}

func NewSavedCandidateUsecase(repo domain.SavedCandidateRepository, validate *validator.Validate, locale string, opts ...SavedOption) domain.SavedCandidateUsecase {
	tag, err := language.Parse(locale)
	if err != nil {
		logger.Log.Warn("Unknown sort locale, using English", "locale", locale, "error", err)
		tag = language.English
	}

	u := &savedCandidateUsecase{
		repo:     repo,
		validate: validate,
		locale:   tag,
		views:    make(map[string]*savedView),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Load reads the list through from the store and resets search and sort.
func (u *savedCandidateUsecase) Load(ctx context.Context) (*domain.SavedView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	return v.snapshot(), nil
}

func (u *savedCandidateUsecase) load(ctx context.Context) (*savedView, error) {
	scope := domain.ScopeFromContext(ctx)
	list, err := u.repo.Load(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	v := &savedView{
		all:      list,
		filtered: append([]domain.CandidateProfile{}, list...),
	}
	u.views[scope] = v
	return v, nil
}

// view returns the cached view, loading it on first use. Callers hold u.mu.
func (u *savedCandidateUsecase) view(ctx context.Context) (*savedView, error) {
	if v, ok := u.views[domain.ScopeFromContext(ctx)]; ok {
		return v, nil
	}
	return u.load(ctx)
}

func (u *savedCandidateUsecase) View(ctx context.Context) (*domain.SavedView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.view(ctx)
	if err != nil {
		return nil, err
	}
	return v.snapshot(), nil
}

// Get returns a saved candidate by id regardless of the active search.
func (u *savedCandidateUsecase) Get(ctx context.Context, id int64) (*domain.CandidateProfile, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.view(ctx)
	if err != nil {
		return nil, err
	}
	for i := range v.all {
		if v.all[i].ID == id {
			c := v.all[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("Candidate not saved")
}

// Accept appends profile unless its id is already stored. The store is re-read
// first so the write does not drop entries added since the view was loaded.
func (u *savedCandidateUsecase) Accept(ctx context.Context, profile *domain.CandidateProfile) error {
	if profile == nil {
		return apperror.BadRequest("Invalid candidate")
	}
	if err := validation.Check(u.validate, profile); err != nil {
		logger.Log.Error("Invalid current candidate", "error", err)
		return apperror.BadRequest(err.Error())
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	scope := domain.ScopeFromContext(ctx)
	list, err := u.repo.Load(ctx, scope)
	if err != nil {
		return apperror.Internal(err)
	}
	for _, c := range list {
		if c.ID == profile.ID {
			return nil
		}
	}

	updated := append(list, *profile)
	if err := u.repo.Save(ctx, scope, updated); err != nil {
		logger.Log.Error("Error saving candidate", "candidate_id", profile.ID, "error", err)
		return apperror.Internal(err)
	}
	u.audit.Record(ctx, audit.EventCandidateAccepted, profile.ID, zap.String("login", profile.Login))

	if v, ok := u.views[scope]; ok {
		v.all = updated
		v.filtered = u.filter(updated, v.term)
		if v.sortField != "" {
			u.sort(v.filtered, v.sortField, v.sortDir)
		}
	}
	return nil
}

// Remove drops id from the list and the current view. Unknown ids are a no-op.
func (u *savedCandidateUsecase) Remove(ctx context.Context, id int64) (*domain.SavedView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.view(ctx)
	if err != nil {
		return nil, err
	}

	remaining := withoutID(v.all, id)
	if len(remaining) == len(v.all) {
		return v.snapshot(), nil
	}

	if err := u.repo.Save(ctx, domain.ScopeFromContext(ctx), remaining); err != nil {
		logger.Log.Error("Error removing candidate", "candidate_id", id, "error", err)
		return nil, apperror.Internal(err)
	}
	v.all = remaining
	v.filtered = withoutID(v.filtered, id)
	u.audit.Record(ctx, audit.EventCandidateRemoved, id)

	return v.snapshot(), nil
}

func withoutID(list []domain.CandidateProfile, id int64) []domain.CandidateProfile {
	out := make([]domain.CandidateProfile, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Search filters the full list in store order. A blank term shows everything.
func (u *savedCandidateUsecase) Search(ctx context.Context, term string) (*domain.SavedView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.view(ctx)
	if err != nil {
		return nil, err
	}
	v.term = term
	v.filtered = u.filter(v.all, term)
	return v.snapshot(), nil
}

func (u *savedCandidateUsecase) filter(list []domain.CandidateProfile, term string) []domain.CandidateProfile {
	if strings.TrimSpace(term) == "" {
		return append([]domain.CandidateProfile{}, list...)
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]domain.CandidateProfile, 0, len(list))
	for i := range list {
		for _, field := range list[i].SearchableFields() {
			if field != "" && strings.Contains(fold.String(field), needle) {
				out = append(out, list[i])
				break
			}
		}
	}
	return out
}

// SortBy orders the current view. Choosing the same field again flips the direction.
func (u *savedCandidateUsecase) SortBy(ctx context.Context, field domain.SortField) (*domain.SavedView, error) {
	if _, err := domain.ParseSortField(string(field)); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := u.view(ctx)
	if err != nil {
		return nil, err
	}

	direction := domain.SortAsc
	if field == v.sortField && v.sortDir == domain.SortAsc {
		direction = domain.SortDesc
	}
	v.sortField = field
	v.sortDir = direction

	u.sort(v.filtered, field, direction)
	return v.snapshot(), nil
}

func (u *savedCandidateUsecase) sort(list []domain.CandidateProfile, field domain.SortField, direction domain.SortDirection) {
	col := collate.New(u.locale)
	sort.SliceStable(list, func(i, j int) bool {
		a := strings.ToLower(list[i].Field(field))
		b := strings.ToLower(list[j].Field(field))
		if direction == domain.SortDesc {
			return col.CompareString(b, a) < 0
		}
		return col.CompareString(a, b) < 0
	})
}
