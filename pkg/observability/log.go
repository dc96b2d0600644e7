package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hfsm/pkg/domain"
)

// LogListener writes lifecycle events to a slog.Logger at debug level.
// Service fires are only logged when they finish.
type LogListener struct {
	logger *slog.Logger
}

func NewLogListener(logger *slog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) OnEvent(e domain.Event) {
	if e.Type == domain.EventServiceTick && e.Response != domain.Finished {
		return
	}
	if !l.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []slog.Attr{slog.String("path", e.Path)}
	switch e.Type {
	case domain.EventTransition:
		attrs = append(attrs, slog.String("from", e.From))
	case domain.EventServiceTick:
		attrs = append(attrs, slog.String("response", e.Response.String()))
		if t, ok := e.Service.(domain.Typed); ok {
			attrs = append(attrs, slog.String("service", t.TypeTag()))
		}
	}
	if t, ok := e.State.(domain.Typed); ok {
		attrs = append(attrs, slog.String("state", t.TypeTag()))
	}
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, string(e.Type), attrs...)
}
