package audit

import (
	"context"
	"testing"

	"go-candidate-scout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecord(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewWithZap(zap.New(core))

	ctx := domain.WithScope(context.Background(), "alice")
	ctx = context.WithValue(ctx, domain.KeyRequestID, "req-1")
	l.Record(ctx, EventCandidateAccepted, 42)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "candidate_accepted", fields["event"])
	assert.Equal(t, "alice", fields["scope"])
	assert.Equal(t, int64(42), fields["candidate_id"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Record(context.Background(), EventCandidateRemoved, 1)
	assert.NoError(t, l.Sync())
}
