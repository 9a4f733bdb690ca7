package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler delivers each record to every sink that accepts its level. It
// backs the split between stdout JSON logs and the security_events table: a
// failing sink must not starve the others, so delivery always completes and
// errors are joined afterwards.
type MultiHandler struct {
	sinks []slog.Handler
}

func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks}
}

func (mh *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range mh.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (mh *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range mh.sinks {
		if !s.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (mh *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(mh.sinks))
	for i, s := range mh.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &MultiHandler{sinks: sinks}
}

func (mh *MultiHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(mh.sinks))
	for i, s := range mh.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &MultiHandler{sinks: sinks}
}
