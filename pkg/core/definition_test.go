package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOp(t *testing.T, name, method string) *Operation {
	t.Helper()
	op, err := NewOperation(name, method, reflect.TypeFor[string](), reflect.TypeFor[string]())
	require.NoError(t, err)
	return op
}

func TestNewServiceDefinition(t *testing.T) {
	def, err := NewServiceDefinition("GreetService", []*Operation{
		mustOp(t, "greet", "Greet"),
		mustOp(t, "farewell", "Farewell"),
	})
	require.NoError(t, err)

	assert.Equal(t, "GreetService", def.Name())
	assert.Equal(t, 2, def.Len())

	op, ok := def.Operation("greet")
	require.True(t, ok)
	assert.Equal(t, "Greet", op.MethodName())

	byMethod, ok := def.OperationByMethod("Farewell")
	require.True(t, ok)
	assert.Equal(t, "farewell", byMethod.Name())

	assert.Equal(t, []string{"Farewell", "Greet"}, def.MethodNames())
}

func TestNewServiceDefinition_DuplicateName(t *testing.T) {
	_, err := NewServiceDefinition("S", []*Operation{
		mustOp(t, "greet", "Greet"),
		mustOp(t, "greet", "GreetAgain"),
	})
	require.Error(t, err)

	var defErr *DefinitionError
	assert.True(t, errors.As(err, &defErr))
	assert.Contains(t, err.Error(), `operation "greet" defined multiple times`)
}

func TestNewServiceDefinition_DuplicateMethodName(t *testing.T) {
	_, err := NewServiceDefinition("S", []*Operation{
		mustOp(t, "greet", "Greet"),
		mustOp(t, "salute", "Greet"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `method name "Greet" used by both`)
}

func TestNewServiceDefinition_AggregatesAllProblems(t *testing.T) {
	incomplete, err := NewOperation("partial", "", nil, nil)
	require.NoError(t, err)

	_, err = NewServiceDefinition("S", []*Operation{
		mustOp(t, "greet", "Greet"),
		mustOp(t, "greet", "GreetAgain"),
		incomplete,
	})
	require.Error(t, err)

	// One failure reports every problem found.
	assert.Contains(t, err.Error(), "defined multiple times")
	assert.Contains(t, err.Error(), "no method name")
	assert.Contains(t, err.Error(), "no input type")
	assert.Contains(t, err.Error(), "no output type")
}

func TestNewServiceDefinition_EmptyServiceName(t *testing.T) {
	_, err := NewServiceDefinition("", []*Operation{mustOp(t, "greet", "Greet")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service name must not be empty")
}

func TestServiceDefinition_Operations_SortedByName(t *testing.T) {
	def, err := NewServiceDefinition("S", []*Operation{
		mustOp(t, "zeta", "Zeta"),
		mustOp(t, "alpha", "Alpha"),
	})
	require.NoError(t, err)

	ops := def.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, "alpha", ops[0].Name())
	assert.Equal(t, "zeta", ops[1].Name())
}
