package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetmap/internal/adapters/telemetry/progrock"
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
)

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.New()
	require.NotNil(t, recorder)

	ctx, vertex := recorder.Record(context.Background(), "update: diff")

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	vertex.Log(domain.LogLevelDebug, "12 changes")
	vertex.Log(domain.LogLevelWarn, "3 skipped")
	vertex.Complete(nil)

	_, cached := recorder.Record(ctx, "cache: load")
	cached.Cached()
	cached.Complete(nil)

	_, failed := recorder.Record(ctx, "update: analyze")
	failed.Complete(errors.New("parse failed"))

	assert.NoError(t, recorder.Close())
}
