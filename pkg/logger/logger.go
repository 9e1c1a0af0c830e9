package logger

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var Log = slog.New(slog.NewJSONHandler(io.Discard, nil))

func Init() {
	InitWithFile("")
}

// InitWithFile logs JSON to stdout and, when path is set, mirrors every record into that file.
func InitWithFile(path string) {
	InitWithWriter(os.Stdout, path, slog.LevelDebug)
}

// InitWithWriter is InitWithFile with a custom primary output and level.
// The CLI uses it to keep stdout free for command output.
func InitWithWriter(w io.Writer, path string, level slog.Level) {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handlers := []slog.Handler{slog.NewJSONHandler(w, opts)}

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(f, opts))
		} else {
			slog.Default().Warn("log file unavailable, using primary output only", "path", path, "error", err)
		}
	}

	Log = slog.New(slogmulti.Fanout(handlers...))
}
