package audit

import (
	"context"

	"go-candidate-scout/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names an accepted-list mutation.
type EventType string

const (
	EventCandidateAccepted EventType = "candidate_accepted"
	EventCandidateRemoved  EventType = "candidate_removed"
	EventListArchived      EventType = "list_archived"
)

// Logger records accepted-list mutations as structured audit events.
type Logger struct {
	zapLogger *zap.Logger
}

// New builds a production zap logger writing to stdout.
func New() *Logger {
	return NewWithOutput("stdout")
}

// NewWithOutput builds a production zap logger writing to path ("stdout", "stderr" or a file).
func NewWithOutput(path string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return &Logger{zapLogger: logger}
}

// NewWithZap wraps an existing zap logger (zap.NewNop in tests).
func NewWithZap(l *zap.Logger) *Logger {
	return &Logger{zapLogger: l}
}

func (l *Logger) Record(ctx context.Context, event EventType, candidateID int64, fields ...zap.Field) {
	if l == nil || l.zapLogger == nil {
		return
	}
	base := []zap.Field{
		zap.String("event", string(event)),
		zap.String("scope", domain.ScopeFromContext(ctx)),
	}
	if candidateID != 0 {
		base = append(base, zap.Int64("candidate_id", candidateID))
	}
	if reqID, ok := ctx.Value(domain.KeyRequestID).(string); ok && reqID != "" {
		base = append(base, zap.String("request_id", reqID))
	}
	l.zapLogger.Info("audit", append(base, fields...)...)
}

func (l *Logger) Sync() error {
	if l == nil || l.zapLogger == nil {
		return nil
	}
	return l.zapLogger.Sync()
}
