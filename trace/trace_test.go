package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	id, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", id)
}

func TestRequestIDFromContextMissing(t *testing.T) {
	id, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestRequestIDFromContextEmptyValue(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	_, ok := RequestIDFromContext(ctx)
	assert.False(t, ok)
}

func TestEnsureRequestID(t *testing.T) {
	t.Run("returns existing id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-456")
		assert.Equal(t, "req-456", EnsureRequestID(ctx))
	})

	t.Run("generates uuid when absent", func(t *testing.T) {
		id := EnsureRequestID(context.Background())
		_, err := uuid.Parse(id)
		require.NoError(t, err)
	})
}
