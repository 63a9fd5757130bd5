package core

import (
	"fmt"
	"reflect"
)

// Operation is an immutable descriptor for one remote operation: the
// user-facing name, the identifier of the implementing method, and the
// input/output types exchanged with callers.
//
// The type tokens may be nil while a descriptor is under construction (they
// can be inferred later from a handler signature); a finalized
// ServiceDefinition rejects descriptors that still lack them.
type Operation struct {
	name       string
	methodName string
	inputType  reflect.Type
	outputType reflect.Type
}

// NewOperation builds an Operation descriptor. The name must not be empty;
// the method name and type tokens may be deferred.
func NewOperation(name, methodName string, input, output reflect.Type) (*Operation, error) {
	if name == "" {
		return nil, NewDefinitionError("operation name must not be empty")
	}
	return &Operation{
		name:       name,
		methodName: methodName,
		inputType:  input,
		outputType: output,
	}, nil
}

// Name returns the user-facing operation name, unique within a service.
func (o *Operation) Name() string {
	return o.name
}

// MethodName returns the identifier of the implementing method, unique
// within a service.
func (o *Operation) MethodName() string {
	return o.methodName
}

// InputType returns the operation's input type token, or nil if not yet
// inferred.
func (o *Operation) InputType() reflect.Type {
	return o.inputType
}

// OutputType returns the operation's output type token, or nil if not yet
// inferred.
func (o *Operation) OutputType() reflect.Type {
	return o.outputType
}

// WithMethodName returns a copy of the descriptor with the method name set.
// The receiver is never modified.
func (o *Operation) WithMethodName(methodName string) *Operation {
	clone := *o
	clone.methodName = methodName
	return &clone
}

// WithTypes returns a copy of the descriptor with the type tokens set.
// The receiver is never modified.
func (o *Operation) WithTypes(input, output reflect.Type) *Operation {
	clone := *o
	clone.inputType = input
	clone.outputType = output
	return &clone
}

// Problems reports validation issues without failing, so the service
// definition validator can aggregate every problem it finds into a single
// error instead of stopping at the first.
func (o *Operation) Problems() []string {
	var problems []string
	if o.name == "" {
		problems = append(problems, "operation name must not be empty")
	}
	if o.methodName == "" {
		problems = append(problems, fmt.Sprintf("operation %q has no method name", o.name))
	}
	if o.inputType == nil {
		problems = append(problems, fmt.Sprintf("operation %q has no input type", o.name))
	}
	if o.outputType == nil {
		problems = append(problems, fmt.Sprintf("operation %q has no output type", o.name))
	}
	return problems
}

func (o *Operation) String() string {
	in, out := "?", "?"
	if o.inputType != nil {
		in = o.inputType.String()
	}
	if o.outputType != nil {
		out = o.outputType.String()
	}
	return fmt.Sprintf("%s(%s) -> %s", o.name, in, out)
}
