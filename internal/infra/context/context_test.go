package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	context_ "github.com/mkrupp/expensetracker/internal/infra/context"
)

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := context_.UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := context_.WithUserID(context.Background(), 42)
	userID, ok := context_.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	_, ok := context_.TraceIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := context_.WithTraceID(context.Background(), "abc")
	traceID, ok := context_.TraceIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", traceID)
}
