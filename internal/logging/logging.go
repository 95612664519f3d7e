package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// New builds a JSON logger at the given level. When file is non-empty the
// output is mirrored into an append-only log file, each record tagged with
// a unique entry id.
func New(level, file string) (*slog.Logger, error) {
	lvl := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}

	var w io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = io.MultiWriter(os.Stdout, f)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(entryIDHandler{h}), nil
}

// entryIDHandler stamps every record with a fresh uuid, so lines in the
// shared log file can be referenced individually.
type entryIDHandler struct {
	slog.Handler
}

func (h entryIDHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.String("entry_id", uuid.NewString()))
	return h.Handler.Handle(ctx, r)
}

func (h entryIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return entryIDHandler{h.Handler.WithAttrs(attrs)}
}

func (h entryIDHandler) WithGroup(name string) slog.Handler {
	return entryIDHandler{h.Handler.WithGroup(name)}
}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
