package core

import (
	"reflect"
)

// Op declares an operation as a field on a service struct. The zero value
// is usable: the operation name and method name both default to the field
// name, and the input/output types come from the type parameters.
//
//	type GreetService struct {
//	    Greet contracts.Op[string, string]
//	}
type Op[I, O any] struct {
	// Name overrides the user-facing operation name. Defaults to the
	// declaring field's name.
	Name string

	// MethodName, when set, must equal the declaring field's name. It
	// exists so a declaration can state the binding explicitly; the
	// definition builder rejects a mismatch.
	MethodName string
}

// OperationName returns the declared operation name override, or "".
func (o Op[I, O]) OperationName() string {
	return o.Name
}

// OperationMethodName returns the declared method name override, or "".
func (o Op[I, O]) OperationMethodName() string {
	return o.MethodName
}

// OperationInput returns the input type token.
func (Op[I, O]) OperationInput() reflect.Type {
	return reflect.TypeFor[I]()
}

// OperationOutput returns the output type token.
func (Op[I, O]) OperationOutput() reflect.Type {
	return reflect.TypeFor[O]()
}

// FieldDescriptor is implemented by Op values. The definition builder uses
// it to recognize operation fields while scanning a service struct.
type FieldDescriptor interface {
	OperationName() string
	OperationMethodName() string
	OperationInput() reflect.Type
	OperationOutput() reflect.Type
}
