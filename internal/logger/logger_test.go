package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true, Tags: map[string]string{"service": "test"}}))
	assert.NotNil(t, Default())

	require.NoError(t, Initialize(Config{Debug: false}))
	assert.NotNil(t, Default())
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.NotNil(t, FromContext(ctx))

	assert.NotNil(t, FromContext(nil))
}
