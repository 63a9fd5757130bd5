package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/handler"
)

type fakeService struct{}

type fakeHandler struct{}

func mustDef(t *testing.T) *core.ServiceDefinition {
	t.Helper()
	op, err := core.NewOperation("greet", "Greet", reflect.TypeFor[string](), reflect.TypeFor[string]())
	require.NoError(t, err)
	def, err := core.NewServiceDefinition("FakeService", []*core.Operation{op})
	require.NoError(t, err)
	return def
}

func TestRegisterDefinition(t *testing.T) {
	r := New()
	def := mustDef(t)

	require.NoError(t, r.RegisterDefinition(reflect.TypeFor[fakeService](), def))

	got, ok := r.Definition(reflect.TypeFor[fakeService]())
	require.True(t, ok)
	assert.Same(t, def, got)
}

func TestRegisterDefinition_Duplicate(t *testing.T) {
	r := New()
	def := mustDef(t)

	require.NoError(t, r.RegisterDefinition(reflect.TypeFor[fakeService](), def))
	err := r.RegisterDefinition(reflect.TypeFor[fakeService](), def)
	require.Error(t, err)

	var defErr *core.DefinitionError
	assert.True(t, errors.As(err, &defErr))
}

func TestRegisterDefinition_PointerAndValueShareKey(t *testing.T) {
	r := New()
	def := mustDef(t)

	require.NoError(t, r.RegisterDefinition(reflect.TypeFor[*fakeService](), def))

	got, ok := r.Definition(reflect.TypeFor[fakeService]())
	require.True(t, ok)
	assert.Same(t, def, got)
}

func TestRegisterOperation_DefaultsMethodName(t *testing.T) {
	r := New()
	op, err := core.NewOperation("greet", "", nil, nil)
	require.NoError(t, err)

	require.NoError(t, r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", op))

	got, ok := r.Operation(reflect.TypeFor[*fakeHandler](), "Greet")
	require.True(t, ok)
	assert.Equal(t, "Greet", got.MethodName())
	// The registered descriptor is a copy; the original stays untouched.
	assert.Equal(t, "", op.MethodName())
}

func TestRegisterOperation_MethodNameMismatch(t *testing.T) {
	r := New()
	op, err := core.NewOperation("greet", "Salute", nil, nil)
	require.NoError(t, err)

	err = r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `registered on method "Greet"`)
}

func TestRegisterOperation_Duplicate(t *testing.T) {
	r := New()
	op, err := core.NewOperation("greet", "Greet", nil, nil)
	require.NoError(t, err)

	require.NoError(t, r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", op))
	err = r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterOperation_NilDescriptor(t *testing.T) {
	r := New()
	err := r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be nil")
}

func TestMethodBinding(t *testing.T) {
	r := New()
	op, err := core.NewOperation("greet", "Greet", nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.RegisterOperation(reflect.TypeFor[*fakeHandler](), "Greet", op))

	// Before binding: descriptor only.
	factory, got, ok := r.Method(reflect.TypeFor[*fakeHandler](), "Greet")
	require.True(t, ok)
	assert.Nil(t, factory)
	assert.Equal(t, "greet", got.Name())

	bound := handler.Factory(func() (handler.OperationHandler, error) {
		return handler.NewSyncHandler(func(ctx context.Context, s string) (string, error) {
			return s, nil
		})
	})
	r.SetMethodBinding(reflect.TypeFor[fakeHandler](), "Greet", bound, op)

	factory, _, ok = r.Method(reflect.TypeFor[*fakeHandler](), "Greet")
	require.True(t, ok)
	require.NotNil(t, factory)
	h, err := factory()
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestDefault_SharedInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}
