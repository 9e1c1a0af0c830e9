package domain

import "context"

type AcquisitionStatus string

const (
	StatusLoading AcquisitionStatus = "loading"
	StatusReady   AcquisitionStatus = "ready"
	StatusEmpty   AcquisitionStatus = "empty"
	StatusError   AcquisitionStatus = "error"
)

// AcquisitionState is what the single-candidate view renders.
type AcquisitionState struct {
	Status    AcquisitionStatus `json:"status"`
	Candidate *CandidateProfile `json:"candidate,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func LoadingState() AcquisitionState { return AcquisitionState{Status: StatusLoading} }
func EmptyState() AcquisitionState   { return AcquisitionState{Status: StatusEmpty} }

func ReadyState(p *CandidateProfile) AcquisitionState {
	return AcquisitionState{Status: StatusReady, Candidate: p}
}

func ErrorState(message string) AcquisitionState {
	return AcquisitionState{Status: StatusError, Message: message}
}

// AcquisitionCursor is the position within the most recently fetched batch.
// Index stays within [0, len(Refs)].
type AcquisitionCursor struct {
	Refs  []IdentityRef
	Index int
}

func (c *AcquisitionCursor) Exhausted() bool {
	return c.Index >= len(c.Refs)
}

func (c *AcquisitionCursor) Current() IdentityRef {
	return c.Refs[c.Index]
}

func (c *AcquisitionCursor) Advance() {
	if c.Index < len(c.Refs) {
		c.Index++
	}
}

// Reset replaces the batch wholesale; the previous batch is never merged.
func (c *AcquisitionCursor) Reset(refs []IdentityRef) {
	c.Refs = refs
	c.Index = 0
}

type AcquisitionUsecase interface {
	Next(ctx context.Context) (AcquisitionState, error)
	Current(ctx context.Context) AcquisitionState
	AcceptCurrent(ctx context.Context) (AcquisitionState, error)
}
