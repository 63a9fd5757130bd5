package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperation(t *testing.T) {
	op, err := NewOperation("greet", "Greet", reflect.TypeFor[string](), reflect.TypeFor[string]())
	require.NoError(t, err)

	assert.Equal(t, "greet", op.Name())
	assert.Equal(t, "Greet", op.MethodName())
	assert.Equal(t, reflect.TypeFor[string](), op.InputType())
	assert.Equal(t, reflect.TypeFor[string](), op.OutputType())
}

func TestNewOperation_EmptyName(t *testing.T) {
	_, err := NewOperation("", "Greet", nil, nil)
	require.Error(t, err)

	var defErr *DefinitionError
	assert.True(t, errors.As(err, &defErr))
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestOperation_Problems(t *testing.T) {
	op, err := NewOperation("greet", "", nil, nil)
	require.NoError(t, err)

	problems := op.Problems()
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "no method name")
	assert.Contains(t, problems[1], "no input type")
	assert.Contains(t, problems[2], "no output type")
}

func TestOperation_Problems_Complete(t *testing.T) {
	op, err := NewOperation("greet", "Greet", reflect.TypeFor[string](), reflect.TypeFor[int]())
	require.NoError(t, err)

	assert.Empty(t, op.Problems())
}

func TestOperation_WithMethodName_DoesNotMutate(t *testing.T) {
	op, err := NewOperation("greet", "", nil, nil)
	require.NoError(t, err)

	clone := op.WithMethodName("Greet")
	assert.Equal(t, "", op.MethodName())
	assert.Equal(t, "Greet", clone.MethodName())
	assert.Equal(t, "greet", clone.Name())
}

func TestOperation_WithTypes_DoesNotMutate(t *testing.T) {
	op, err := NewOperation("greet", "Greet", nil, nil)
	require.NoError(t, err)

	clone := op.WithTypes(reflect.TypeFor[string](), reflect.TypeFor[bool]())
	assert.Nil(t, op.InputType())
	assert.Equal(t, reflect.TypeFor[string](), clone.InputType())
	assert.Equal(t, reflect.TypeFor[bool](), clone.OutputType())
}

func TestOperation_String(t *testing.T) {
	op, err := NewOperation("greet", "Greet", reflect.TypeFor[string](), reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "greet(string) -> string", op.String())

	partial, err := NewOperation("pending", "Pending", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "pending(?) -> ?", partial.String())
}
