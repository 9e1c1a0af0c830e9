package domain

import (
	"context"
	"fmt"
)

// SavedCandidatesKey is the store key holding the serialized accepted list.
const SavedCandidatesKey = "savedCandidates"

type SortField string

const (
	SortByName     SortField = "name"
	SortByLocation SortField = "location"
	SortByCompany  SortField = "company"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByName, SortByLocation, SortByCompany:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SavedView is the accepted list as the table renders it.
type SavedView struct {
	Candidates    []CandidateProfile `json:"candidates"`
	Total         int                `json:"total"`
	SearchTerm    string             `json:"search_term"`
	SortField     SortField          `json:"sort_field"`
	SortDirection SortDirection      `json:"sort_direction"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// KeyValueStore is a string store scoped by the caller.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

type SavedCandidateRepository interface {
	Load(ctx context.Context, scope string) ([]CandidateProfile, error)
	Save(ctx context.Context, scope string, candidates []CandidateProfile) error
}

// ObjectStore receives archived exports.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type SavedCandidateUsecase interface {
	Load(ctx context.Context) (*SavedView, error)
	Accept(ctx context.Context, profile *CandidateProfile) error
	Remove(ctx context.Context, id int64) (*SavedView, error)
	Search(ctx context.Context, term string) (*SavedView, error)
	SortBy(ctx context.Context, field SortField) (*SavedView, error)
	View(ctx context.Context) (*SavedView, error)
	Get(ctx context.Context, id int64) (*CandidateProfile, error)
	Export(ctx context.Context, format string) (*ExportFile, error)
	Archive(ctx context.Context, format string) (string, error)
}
