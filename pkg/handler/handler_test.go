package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartResult_Sync(t *testing.T) {
	r := SyncResult("hello")

	out, ok := r.Sync()
	require.True(t, ok)
	assert.Equal(t, "hello", out)

	_, ok = r.Token()
	assert.False(t, ok)
}

func TestStartResult_Async(t *testing.T) {
	r := AsyncResult("tok-123")

	token, ok := r.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)

	_, ok = r.Sync()
	assert.False(t, ok)
}

func TestOperationState_Terminal(t *testing.T) {
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateSucceeded.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.True(t, StateCancelled.Terminal())
}

func TestNewToken_Unique(t *testing.T) {
	a := NewToken()
	b := NewToken()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
