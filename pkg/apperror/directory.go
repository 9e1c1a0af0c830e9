package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or unusable setting detected before any request is made.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Message)
}

// APIError is a non-success response from the identity directory.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error %d: %s", e.Status, e.Message)
}

// ValidationError marks a record that failed the candidate shape check.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid candidate: " + e.Reason
}

// Kind groups failures by how the acquisition flow reacts to them.
type Kind int

const (
	KindTransient Kind = iota
	KindRateLimited
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindFatal:
		return "fatal"
	default:
		return "transient"
	}
}

// rateLimitMarker is matched against the error text, not the status code:
// the directory answers 403 for both rate limits and other refusals.
const rateLimitMarker = "rate limit"

// Classify maps a raw failure to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindTransient
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return KindFatal
	}
	if strings.Contains(strings.ToLower(err.Error()), rateLimitMarker) {
		return KindRateLimited
	}
	return KindTransient
}
