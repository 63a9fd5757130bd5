package core

import (
	"fmt"
	"sort"
	"strings"
)

// ServiceDefinition is a frozen description of the operations a service
// exposes, keyed by operation name. Once built it is never mutated and is
// safe to share across any number of goroutines.
type ServiceDefinition struct {
	name     string
	ops      map[string]*Operation
	byMethod map[string]*Operation
}

// NewServiceDefinition validates and freezes a set of operations into a
// ServiceDefinition. Every problem found — empty names, duplicate names,
// duplicate method names, missing type tokens — is collected and reported
// in a single DefinitionError.
func NewServiceDefinition(name string, ops []*Operation) (*ServiceDefinition, error) {
	var problems []string
	if name == "" {
		problems = append(problems, "service name must not be empty")
	}

	byName := make(map[string]*Operation, len(ops))
	byMethod := make(map[string]*Operation, len(ops))
	for _, op := range ops {
		problems = append(problems, op.Problems()...)
		if op.Name() != "" {
			if _, dup := byName[op.Name()]; dup {
				problems = append(problems, fmt.Sprintf("operation %q defined multiple times", op.Name()))
				continue
			}
			byName[op.Name()] = op
		}
		if m := op.MethodName(); m != "" {
			if other, dup := byMethod[m]; dup {
				problems = append(problems, fmt.Sprintf("method name %q used by both operation %q and operation %q", m, other.Name(), op.Name()))
				continue
			}
			byMethod[m] = op
		}
	}

	if len(problems) > 0 {
		return nil, NewDefinitionError("invalid service definition %q: %s", name, strings.Join(problems, "; "))
	}

	return &ServiceDefinition{name: name, ops: byName, byMethod: byMethod}, nil
}

// Name returns the service name.
func (d *ServiceDefinition) Name() string {
	return d.name
}

// Operation looks up an operation by its user-facing name.
func (d *ServiceDefinition) Operation(name string) (*Operation, bool) {
	op, ok := d.ops[name]
	return op, ok
}

// OperationByMethod looks up an operation by its implementing method name.
func (d *ServiceDefinition) OperationByMethod(methodName string) (*Operation, bool) {
	op, ok := d.byMethod[methodName]
	return op, ok
}

// Operations returns the definition's operations sorted by name.
func (d *ServiceDefinition) Operations() []*Operation {
	ops := make([]*Operation, 0, len(d.ops))
	for _, op := range d.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name() < ops[j].Name() })
	return ops
}

// MethodNames returns the definition's method names sorted alphabetically.
func (d *ServiceDefinition) MethodNames() []string {
	names := make([]string, 0, len(d.byMethod))
	for m := range d.byMethod {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of operations in the definition.
func (d *ServiceDefinition) Len() int {
	return len(d.ops)
}
