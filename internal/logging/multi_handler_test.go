package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures every record at or above its level.
type recordingSink struct {
	level    slog.Level
	messages []string
	err      error
}

func (r *recordingSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level
}

func (r *recordingSink) Handle(_ context.Context, record slog.Record) error {
	r.messages = append(r.messages, record.Message)
	return r.err
}

func (r *recordingSink) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingSink) WithGroup(string) slog.Handler      { return r }

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	t.Parallel()

	stdout := &recordingSink{level: slog.LevelInfo}
	audit := &recordingSink{level: slog.LevelWarn}
	logger := slog.New(NewMultiHandler(stdout, audit))

	logger.Info("routine")
	logger.Warn("suspicious")

	assert.Equal(t, []string{"routine", "suspicious"}, stdout.messages)
	assert.Equal(t, []string{"suspicious"}, audit.messages, "audit sink only sees WARN and above")
}

// A failing sink must not keep records from reaching the others.
func TestMultiHandler_FailingSinkDoesNotStarveOthers(t *testing.T) {
	t.Parallel()

	broken := &recordingSink{level: slog.LevelInfo, err: errors.New("sink down")}
	healthy := &recordingSink{level: slog.LevelInfo}
	mh := NewMultiHandler(broken, healthy)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "still delivered", 0)
	err := mh.Handle(context.Background(), record)

	require.Error(t, err)
	assert.Equal(t, []string{"still delivered"}, healthy.messages)
}

func TestMultiHandler_EnabledWhenAnySinkAccepts(t *testing.T) {
	t.Parallel()

	mh := NewMultiHandler(
		&recordingSink{level: slog.LevelWarn},
		&recordingSink{level: slog.LevelError},
	)

	ctx := context.Background()
	assert.True(t, mh.Enabled(ctx, slog.LevelWarn))
	assert.False(t, mh.Enabled(ctx, slog.LevelInfo))
}
