package contextutil_test

import (
	"context"
	"testing"

	"markpedia-os/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")
	ctx = contextutil.WithRole(ctx, "HR")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "rid-1", md.RequestID)
	assert.Equal(t, "user-1", md.UserID)
	assert.Equal(t, "HR", md.Role)
}

func TestGetLogger(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		def := zap.NewExample()
		assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	})

	t.Run("never nil", func(t *testing.T) {
		assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
	})

	t.Run("request scoped wins", func(t *testing.T) {
		scoped := zap.NewExample().Named("req")
		ctx := contextutil.WithLogger(context.Background(), scoped)
		assert.Same(t, scoped, contextutil.GetLogger(ctx, zap.NewNop()))
	})
}
