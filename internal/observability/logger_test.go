package observability_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lgrimaldi/plume-agent/internal/observability"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("verbose"))
}

func TestSetLevel(t *testing.T) {
	defer observability.SetLevel(slog.LevelInfo)

	ctx := context.Background()
	assert.False(t, observability.Logger().Enabled(ctx, slog.LevelDebug))

	observability.SetLevel(slog.LevelDebug)
	assert.True(t, observability.Logger().Enabled(ctx, slog.LevelDebug))

	observability.SetLevel(slog.LevelError)
	assert.False(t, observability.Logger().Enabled(ctx, slog.LevelInfo))
}
