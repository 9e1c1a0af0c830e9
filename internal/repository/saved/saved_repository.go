package saved

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/logger"
	"go-candidate-scout/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type savedCandidateRepository struct {
	store    domain.KeyValueStore
	validate *validator.Validate
}

func NewSavedCandidateRepository(store domain.KeyValueStore, validate *validator.Validate) domain.SavedCandidateRepository {
	return &savedCandidateRepository{store: store, validate: validate}
}

// Key namespaces the fixed list key by scope.
func Key(scope string) string {
	return "scope:" + scope + ":" + domain.SavedCandidatesKey
}

// Load never fails on bad stored content: unparseable or non-array data reads
// as an empty list and invalid entries are dropped. Only store errors are returned.
func (r *savedCandidateRepository) Load(ctx context.Context, scope string) ([]domain.CandidateProfile, error) {
	raw, ok, err := r.store.Get(ctx, Key(scope))
	if err != nil {
		return nil, fmt.Errorf("read saved candidates: %w", err)
	}
	if !ok || raw == "" {
		return []domain.CandidateProfile{}, nil
	}
	return Parse(raw), nil
}

// Save overwrites the whole list. Entries read back from storage already passed
// the shape check; new entries must pass struct validation.
func (r *savedCandidateRepository) Save(ctx context.Context, scope string, candidates []domain.CandidateProfile) error {
	for i := range candidates {
		if len(candidates[i].Raw) > 0 {
			continue
		}
		if err := validation.Check(r.validate, &candidates[i]); err != nil {
			return fmt.Errorf("refusing to save candidate %d: %w", candidates[i].ID, err)
		}
	}

	data, err := Serialize(candidates)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, Key(scope), data); err != nil {
		return fmt.Errorf("write saved candidates: %w", err)
	}
	return nil
}

// Parse decodes a stored list, checking each element on its own.
func Parse(raw string) []domain.CandidateProfile {
	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		logger.Log.Error("Saved candidates data is not a JSON array", "error", err)
		return []domain.CandidateProfile{}
	}

	candidates := make([]domain.CandidateProfile, 0, len(elements))
	for _, element := range elements {
		candidate, err := ParseProfile(element)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) != len(elements) {
		logger.Log.Warn("Some saved candidates were invalid and have been filtered out",
			"stored", len(elements), "kept", len(candidates))
	}
	return candidates
}

// ParseProfile accepts any JSON object whose id is a number and whose login and
// avatar_url are strings. Optional fields that do not decode are left empty; the
// element itself is kept in Raw.
func ParseProfile(element []byte) (domain.CandidateProfile, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return domain.CandidateProfile{}, &apperror.ValidationError{Reason: "saved candidate is not an object"}
	}

	id, err := integerID(fields["id"])
	if err != nil {
		return domain.CandidateProfile{}, err
	}
	if !isString(fields["login"]) || !isString(fields["avatar_url"]) {
		return domain.CandidateProfile{}, &apperror.ValidationError{Reason: "login and avatar_url must be strings"}
	}

	p := domain.CandidateProfile{ID: id}
	decodeField(fields, "login", &p.Login)
	decodeField(fields, "avatar_url", &p.AvatarURL)
	decodeField(fields, "name", &p.Name)
	decodeField(fields, "html_url", &p.HTMLURL)
	decodeField(fields, "location", &p.Location)
	decodeField(fields, "email", &p.Email)
	decodeField(fields, "company", &p.Company)
	decodeField(fields, "bio", &p.Bio)
	decodeField(fields, "blog", &p.Blog)
	decodeField(fields, "twitter_username", &p.TwitterUsername)
	decodeField(fields, "hireable", &p.Hireable)
	decodeField(fields, "public_repos", &p.PublicRepos)
	decodeField(fields, "followers", &p.Followers)
	decodeField(fields, "following", &p.Following)
	decodeField(fields, "created_at", &p.CreatedAt)
	decodeField(fields, "updated_at", &p.UpdatedAt)

	var compact bytes.Buffer
	if err := json.Compact(&compact, element); err != nil {
		return domain.CandidateProfile{}, &apperror.ValidationError{Reason: "saved candidate is not valid JSON"}
	}
	p.Raw = compact.Bytes()
	return p, nil
}

// integerID reads a JSON number that holds a whole value, including forms like 1e3.
func integerID(raw json.RawMessage) (int64, error) {
	if !isNumber(raw) {
		return 0, &apperror.ValidationError{Reason: "id must be a number"}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &apperror.ValidationError{Reason: "id must be a number"}
	}
	if id, err := n.Int64(); err == nil {
		return id, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, &apperror.ValidationError{Reason: "id must be a whole number"}
	}
	return int64(f), nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

func isString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

func isNumber(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'))
}

// Serialize renders the whole list; an empty list is "[]", never "null". Entries
// that came from storage or the directory are written back byte for byte.
func Serialize(candidates []domain.CandidateProfile) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range candidates {
		if i > 0 {
			buf.WriteByte(',')
		}
		if len(candidates[i].Raw) > 0 {
			buf.Write(candidates[i].Raw)
			continue
		}
		data, err := json.Marshal(&candidates[i])
		if err != nil {
			return "", fmt.Errorf("encode saved candidates: %w", err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.String(), nil
}
