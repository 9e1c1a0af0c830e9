package domain

import (
	"context"
	"encoding/json"
	"time"
)

// CandidateProfile is a directory identity's public profile as fetched.
// Nullable profile fields stay pointers so a stored list round-trips with its nulls intact.
type CandidateProfile struct {
	ID              int64      `json:"id" validate:"required,gt=0"`
	Login           string     `json:"login" validate:"required"`
	Name            *string    `json:"name"`
	AvatarURL       string     `json:"avatar_url" validate:"required"`
	HTMLURL         string     `json:"html_url"`
	Location        *string    `json:"location"`
	Email           *string    `json:"email"`
	Company         *string    `json:"company"`
	Bio             *string    `json:"bio"`
	Blog            *string    `json:"blog,omitempty"`
	TwitterUsername *string    `json:"twitter_username,omitempty"`
	Hireable        *bool      `json:"hireable,omitempty"`
	PublicRepos     int        `json:"public_repos,omitempty"`
	Followers       int        `json:"followers,omitempty"`
	Following       int        `json:"following,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	// Raw is the record exactly as the directory or the store supplied it.
	// The saved-list codec writes it back unchanged so fields not modeled here survive.
	Raw json.RawMessage `json:"-" swaggerignore:"true"`
}

// DisplayName falls back to the login when no name is set.
func (p *CandidateProfile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Login
}

// Field returns the value used for sorting, "" when missing.
func (p *CandidateProfile) Field(field SortField) string {
	switch field {
	case SortByName:
		return deref(p.Name)
	case SortByLocation:
		return deref(p.Location)
	case SortByCompany:
		return deref(p.Company)
	}
	return ""
}

// SearchableFields lists the values matched by free-text search.
func (p *CandidateProfile) SearchableFields() []string {
	return []string{deref(p.Name), p.Login, deref(p.Location), deref(p.Company), deref(p.Email), deref(p.Bio)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IdentityRef is the lightweight listing record returned by a batch fetch.
type IdentityRef struct {
	ID    int64  `json:"id" validate:"required,gt=0"`
	Login string `json:"login" validate:"required"`
}

type DirectoryRepository interface {
	FetchBatch(ctx context.Context) ([]IdentityRef, error)
	FetchProfile(ctx context.Context, login string) (*CandidateProfile, error)
}

// AvatarProber downloads and decodes an avatar; an error means it would not render.
type AvatarProber interface {
	Probe(ctx context.Context, url string) error
}
