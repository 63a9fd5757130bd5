package definition

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ramsthapit/service-contracts/pkg/core"
)

// Build scans a service struct for Op[I, O] fields and produces a frozen,
// validated ServiceDefinition. It is invoked once per service, at
// declaration time.
//
// For each operation field the method name is the field's own name; a
// MethodName override must match it. The operation name defaults to the
// field name. Embedded structs that already carry a registered definition
// contribute their operations under strict no-override rules; embedding a
// plain struct contributes nothing.
//
// Every problem found during the scan is collected and reported in a
// single DefinitionError.
func Build(service any, opts ...Option) (*core.ServiceDefinition, error) {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}

	sv := reflect.ValueOf(service)
	for sv.Kind() == reflect.Pointer {
		if sv.IsNil() {
			return nil, core.NewDefinitionError("service must not be nil")
		}
		sv = sv.Elem()
	}
	if sv.Kind() != reflect.Struct {
		return nil, core.NewDefinitionError("service must be a struct, got %s", sv.Kind())
	}
	st := sv.Type()

	name := o.Name
	if name == "" {
		name = st.Name()
	}

	var problems []string
	own := make(map[string]*core.Operation)
	ownMethods := make(map[string]string)
	var order []string
	bases := append([]*core.ServiceDefinition(nil), o.Bases...)

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.Anonymous {
			if base, ok := o.Registry.Definition(field.Type); ok {
				bases = append(bases, base)
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		fd, ok := sv.Field(i).Interface().(core.FieldDescriptor)
		if !ok {
			continue
		}

		methodName := fd.OperationMethodName()
		if methodName == "" {
			methodName = field.Name
		} else if methodName != field.Name {
			problems = append(problems, fmt.Sprintf("operation field %q declares method name %q; it must equal the field name", field.Name, methodName))
			continue
		}

		opName := fd.OperationName()
		if opName == "" {
			opName = field.Name
		}

		op, err := core.NewOperation(opName, methodName, fd.OperationInput(), fd.OperationOutput())
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}

		if _, dup := own[opName]; dup {
			problems = append(problems, fmt.Sprintf("operation %q defined multiple times", opName))
			continue
		}
		own[opName] = op
		ownMethods[methodName] = opName
		order = append(order, opName)
	}

	// Strict merge: inherited operations may never collide with, let alone
	// override, this service's own declarations.
	for _, base := range bases {
		for _, inherited := range base.Operations() {
			if _, clash := own[inherited.Name()]; clash {
				problems = append(problems, fmt.Sprintf("operation name %q also occurs in the definition inherited from %q", inherited.Name(), base.Name()))
				continue
			}
			if owner, clash := ownMethods[inherited.MethodName()]; clash {
				problems = append(problems, fmt.Sprintf("method name %q of operation %q also occurs in the definition inherited from %q", inherited.MethodName(), owner, base.Name()))
				continue
			}
			own[inherited.Name()] = inherited
			ownMethods[inherited.MethodName()] = inherited.Name()
			order = append(order, inherited.Name())
		}
	}

	if len(problems) > 0 {
		return nil, core.NewDefinitionError("invalid service definition %q: %s", name, strings.Join(problems, "; "))
	}

	ops := make([]*core.Operation, 0, len(order))
	for _, opName := range order {
		ops = append(ops, own[opName])
	}
	def, err := core.NewServiceDefinition(name, ops)
	if err != nil {
		return nil, err
	}

	if o.Register {
		if err := o.Registry.RegisterDefinition(st, def); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// New builds a ServiceDefinition from explicit operation descriptors, for
// code that does not declare a service struct. WithBase merging and the
// aggregate validation behave exactly as in Build; the definition is not
// attached to any type.
func New(name string, ops []*core.Operation, opts ...Option) (*core.ServiceDefinition, error) {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}

	var problems []string
	merged := make(map[string]*core.Operation)
	methods := make(map[string]string)
	var order []string

	for _, op := range ops {
		if op == nil {
			problems = append(problems, "operation must not be nil")
			continue
		}
		if _, dup := merged[op.Name()]; dup {
			problems = append(problems, fmt.Sprintf("operation %q defined multiple times", op.Name()))
			continue
		}
		merged[op.Name()] = op
		if op.MethodName() != "" {
			methods[op.MethodName()] = op.Name()
		}
		order = append(order, op.Name())
	}

	for _, base := range o.Bases {
		for _, inherited := range base.Operations() {
			if _, clash := merged[inherited.Name()]; clash {
				problems = append(problems, fmt.Sprintf("operation name %q also occurs in the definition inherited from %q", inherited.Name(), base.Name()))
				continue
			}
			if owner, clash := methods[inherited.MethodName()]; clash {
				problems = append(problems, fmt.Sprintf("method name %q of operation %q also occurs in the definition inherited from %q", inherited.MethodName(), owner, base.Name()))
				continue
			}
			merged[inherited.Name()] = inherited
			methods[inherited.MethodName()] = inherited.Name()
			order = append(order, inherited.Name())
		}
	}

	if len(problems) > 0 {
		return nil, core.NewDefinitionError("invalid service definition %q: %s", name, strings.Join(problems, "; "))
	}

	all := make([]*core.Operation, 0, len(order))
	for _, opName := range order {
		all = append(all, merged[opName])
	}
	return core.NewServiceDefinition(name, all)
}
