package handler

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramsthapit/service-contracts/pkg/core"
)

func greet(ctx context.Context, name string) (string, error) {
	return "hello " + name, nil
}

func TestNewSyncHandler(t *testing.T) {
	h, err := NewSyncHandler(greet)
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeFor[string](), h.InputType())
	assert.Equal(t, reflect.TypeFor[string](), h.OutputType())
}

func TestNewSyncHandler_RejectsNonFunction(t *testing.T) {
	_, err := NewSyncHandler(42)
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewSyncHandler_RejectsWrongShape(t *testing.T) {
	_, err := NewSyncHandler(func(name string) string { return name })
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "func(ctx, input) (output, error)")
}

func TestSyncHandler_Start(t *testing.T) {
	h, err := NewSyncHandler(greet)
	require.NoError(t, err)

	result, err := h.Start(context.Background(), &StartContext{}, "world")
	require.NoError(t, err)

	out, ok := result.Sync()
	require.True(t, ok)
	assert.Equal(t, "hello world", out)
}

func TestSyncHandler_Start_PropagatesError(t *testing.T) {
	h, err := NewSyncHandler(func(ctx context.Context, name string) (string, error) {
		return "", errors.New("nope")
	})
	require.NoError(t, err)

	_, err = h.Start(context.Background(), &StartContext{}, "world")
	assert.EqualError(t, err, "nope")
}

func TestSyncHandler_LifecycleUnreachable(t *testing.T) {
	h, err := NewSyncHandler(greet)
	require.NoError(t, err)
	ctx := context.Background()

	var unsupported *core.UnsupportedOperationError

	_, err = h.FetchInfo(ctx, &FetchInfoContext{}, "tok")
	require.Error(t, err)
	assert.True(t, errors.As(err, &unsupported))

	_, err = h.FetchResult(ctx, &FetchResultContext{}, "tok")
	require.Error(t, err)
	assert.True(t, errors.As(err, &unsupported))

	err = h.Cancel(ctx, &CancelContext{}, "tok")
	require.Error(t, err)
	assert.True(t, errors.As(err, &unsupported))
	assert.Contains(t, err.Error(), "responded synchronously")
}

func TestSyncOperation(t *testing.T) {
	op, factory := SyncOperation("greet", greet)

	assert.Equal(t, "greet", op.Name())
	assert.Equal(t, "", op.MethodName())
	assert.Equal(t, reflect.TypeFor[string](), op.InputType())
	assert.Equal(t, reflect.TypeFor[string](), op.OutputType())

	// Each invocation gets a fresh handler instance.
	h1, err := factory()
	require.NoError(t, err)
	h2, err := factory()
	require.NoError(t, err)
	assert.NotSame(t, h1, h2)
}

func TestSyncOperation_PanicsOnEmptyName(t *testing.T) {
	assert.Panics(t, func() {
		SyncOperation("", greet)
	})
}
