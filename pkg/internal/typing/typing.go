package typing

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// IsUniversal reports whether t is compatible with every type: either a nil
// token (not yet inferred) or the empty interface.
func IsUniversal(t reflect.Type) bool {
	return t == nil || (t.Kind() == reflect.Interface && t.NumMethod() == 0)
}

// IsSubtype reports whether a value of type sub can be used where super is
// expected. A universal type on either side short-circuits the check.
func IsSubtype(sub, super reflect.Type) bool {
	if IsUniversal(sub) || IsUniversal(super) {
		return true
	}
	if sub == super {
		return true
	}
	if super.Kind() == reflect.Interface {
		return sub.Implements(super)
	}
	return false
}

// Func holds the parsed shape of a handler function.
type Func struct {
	Fn     reflect.Value
	Input  reflect.Type
	Output reflect.Type
}

// ParseFunc validates that fn is a blocking handler function of the form
//
//	func(ctx context.Context, input I) (O, error)
//
// and extracts its input and output types. The context parameter is what
// marks the function as suspendable: a function without one cannot await
// external completion and is rejected.
func ParseFunc(fn any) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("function cannot be nil")
	}

	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || (fnVal.Kind() == reflect.Func && fnVal.IsNil()) {
		return nil, fmt.Errorf("function cannot be nil")
	}

	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("got %s, want a function", fnType.Kind())
	}

	if fnType.NumIn() != 2 {
		return nil, fmt.Errorf("function must take (context.Context, input)")
	}
	if !fnType.In(0).Implements(contextType) {
		return nil, fmt.Errorf("first parameter must be context.Context")
	}
	if fnType.NumOut() != 2 {
		return nil, fmt.Errorf("function must return (output, error)")
	}
	if !fnType.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error")
	}

	return &Func{
		Fn:     fnVal,
		Input:  fnType.In(1),
		Output: fnType.Out(0),
	}, nil
}

// Call invokes the function with the given context and input. An input
// whose dynamic type does not match the declared parameter type is coerced
// through JSON, so values that arrived as decoded wire payloads still bind.
func (f *Func) Call(ctx context.Context, input any) (any, error) {
	inputVal := reflect.ValueOf(input)
	if !inputVal.IsValid() {
		inputVal = reflect.Zero(f.Input)
	}
	if inputVal.Type() != f.Input {
		if inputVal.Type().AssignableTo(f.Input) {
			inputVal = inputVal.Convert(f.Input)
		} else {
			coerced, err := coerce(input, f.Input)
			if err != nil {
				return nil, err
			}
			inputVal = coerced
		}
	}

	results := f.Fn.Call([]reflect.Value{reflect.ValueOf(ctx), inputVal})
	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func coerce(input any, target reflect.Type) (reflect.Value, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("failed to marshal input: %w", err)
	}
	ptr := reflect.New(target)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("failed to unmarshal input into %s: %w", target, err)
	}
	return ptr.Elem(), nil
}
