package service

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/handler"
	"github.com/ramsthapit/service-contracts/pkg/internal/typing"
	"github.com/ramsthapit/service-contracts/pkg/registry"
)

var operationHandlerType = reflect.TypeOf((*handler.OperationHandler)(nil)).Elem()
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// candidate is one factory-shaped handler method discovered by reflection.
// The descriptor is nil when no operation was registered for the method.
type candidate struct {
	method  string
	factory handler.Factory
	op      *core.Operation
}

// described reports whether the candidate carries an operation descriptor
// and therefore qualifies as an operation-handler factory.
func (c *candidate) described() bool {
	return c.op != nil
}

// isFactoryMethod reports whether a bound method can construct an
// OperationHandler: no parameters, returning the handler alone or with an
// error.
func isFactoryMethod(mt reflect.Type) bool {
	if mt.NumIn() != 0 {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return mt.Out(0).Implements(operationHandlerType)
	case 2:
		return mt.Out(0).Implements(operationHandlerType) && mt.Out(1).Implements(errorType)
	default:
		return false
	}
}

// bindFactory wraps a bound method value as a Factory.
func bindFactory(name string, m reflect.Value) handler.Factory {
	return func() (handler.OperationHandler, error) {
		out := m.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		h, _ := out[0].Interface().(handler.OperationHandler)
		if h == nil {
			return nil, core.NewConfigurationError("factory method %q returned a nil handler", name)
		}
		return h, nil
	}
}

// collectCandidates enumerates the handler value's factory-shaped methods
// and resolves their registered descriptors.
func collectCandidates(hv reflect.Value, reg *registry.Registry) ([]*candidate, error) {
	ht := hv.Type()
	var candidates []*candidate
	for i := 0; i < ht.NumMethod(); i++ {
		m := ht.Method(i)
		bound := hv.Method(i)
		if !isFactoryMethod(bound.Type()) {
			continue
		}
		c := &candidate{
			method:  m.Name,
			factory: bindFactory(m.Name, bound),
		}
		if op, ok := reg.Operation(ht, m.Name); ok {
			enriched, err := inferTypes(c.method, c.factory, op)
			if err != nil {
				return nil, err
			}
			c.op = enriched
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// inferTypes fills in missing descriptor type tokens from the handler the
// factory produces, when that handler knows its own types.
func inferTypes(method string, factory handler.Factory, op *core.Operation) (*core.Operation, error) {
	if op.InputType() != nil && op.OutputType() != nil {
		return op, nil
	}
	probe, err := factory()
	if err != nil {
		return nil, core.WrapConfigurationError(err, "cannot infer types for method %q", method)
	}
	typed, ok := probe.(handler.TypedHandler)
	if !ok {
		return op, nil
	}
	in, out := op.InputType(), op.OutputType()
	if in == nil {
		in = typed.InputType()
	}
	if out == nil {
		out = typed.OutputType()
	}
	return op.WithTypes(in, out), nil
}

// CollectFactories discovers the handler value's operation-handler
// factories, keyed by method name. A method qualifies only when a factory
// shape and a registered Operation descriptor both resolve for it.
//
// Duplicate operation names among qualifying methods fail with a
// DefinitionError. When a definition is supplied, a qualifying method whose
// name is not among the definition's method names fails with a
// ConfigurationError listing the acceptable method names.
func CollectFactories(h any, def *core.ServiceDefinition, opts ...Option) (map[string]*registry.MethodMetadata, error) {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}

	hv := reflect.ValueOf(h)
	if !hv.IsValid() {
		return nil, core.NewConfigurationError("handler must not be nil")
	}

	candidates, err := collectCandidates(hv, o.Registry)
	if err != nil {
		return nil, err
	}

	seenNames := make(map[string]string)
	factories := make(map[string]*registry.MethodMetadata)
	for _, c := range candidates {
		if !c.described() {
			continue
		}
		if other, dup := seenNames[c.op.Name()]; dup {
			return nil, core.NewDefinitionError("operation %q is implemented by both method %q and method %q", c.op.Name(), other, c.method)
		}
		seenNames[c.op.Name()] = c.method

		if def != nil {
			if _, ok := def.OperationByMethod(c.method); !ok {
				return nil, core.NewConfigurationError(
					"handler method %q does not correspond to any operation in service %q; acceptable method names: %s",
					c.method, def.Name(), strings.Join(def.MethodNames(), ", "))
			}
		}
		factories[c.method] = &registry.MethodMetadata{Operation: c.op, Factory: c.factory}
	}
	return factories, nil
}

// Validate checks a handler's factories against a service definition:
// every definition operation must have a factory with a matching method
// name, a registered descriptor, the same operation name, an input type
// that is identical to or a supertype of the definition's input type, and
// an output type that is identical to or a subtype of the definition's
// output type. A universal type on either side of a comparison is
// compatible with anything.
func Validate(h any, factories map[string]*registry.MethodMetadata, def *core.ServiceDefinition) error {
	hv := reflect.ValueOf(h)
	if !hv.IsValid() {
		return core.NewConfigurationError("handler must not be nil")
	}
	ht := hv.Type()

	matched := make(map[string]bool, len(factories))
	for _, defOp := range def.Operations() {
		meta, ok := factories[defOp.MethodName()]
		if !ok {
			// Distinguish a missing method from one the author wrote but
			// never registered a descriptor for.
			if _, exists := ht.MethodByName(defOp.MethodName()); exists {
				return core.NewConfigurationError(
					"method %q on %s has no operation descriptor registered (forgot to register it?)",
					defOp.MethodName(), ht)
			}
			return &core.MissingImplementationError{Service: def.Name(), MethodName: defOp.MethodName()}
		}
		if meta.Operation == nil {
			return core.NewConfigurationError(
				"method %q on %s has no operation descriptor registered (forgot to register it?)",
				defOp.MethodName(), ht)
		}
		matched[defOp.MethodName()] = true

		if meta.Operation.Name() != defOp.MethodName() && meta.Operation.Name() != defOp.Name() {
			return core.NewTypeMismatchError(
				"method %q implements operation %q but the definition names it %q; handlers may not rename operations",
				defOp.MethodName(), meta.Operation.Name(), defOp.Name())
		}

		// Input contravariance: the handler may accept anything the
		// definition promises to send, or something more general.
		if !typing.IsSubtype(defOp.InputType(), meta.Operation.InputType()) {
			return core.NewTypeMismatchError(
				"method %q input type %s cannot accept the definition's input type %s",
				defOp.MethodName(), meta.Operation.InputType(), defOp.InputType())
		}
		// Output covariance: the handler may promise something more
		// specific than the definition requires.
		if !typing.IsSubtype(meta.Operation.OutputType(), defOp.OutputType()) {
			return core.NewTypeMismatchError(
				"method %q output type %s does not satisfy the definition's output type %s",
				defOp.MethodName(), meta.Operation.OutputType(), defOp.OutputType())
		}
	}

	var extras []string
	for method := range factories {
		if !matched[method] {
			extras = append(extras, method)
		}
	}
	if len(extras) > 0 {
		sort.Strings(extras)
		return core.NewConfigurationError(
			"handler implements more operations than the %q interface: %s",
			def.Name(), strings.Join(extras, ", "))
	}
	return nil
}

// Synthesize builds a ServiceDefinition directly from a handler's own
// operation descriptors, for handlers declared without an explicit
// definition. No inheritance merge applies: there is no declared hierarchy
// to consult.
func Synthesize(serviceName string, factories map[string]*registry.MethodMetadata) (*core.ServiceDefinition, error) {
	ops := make([]*core.Operation, 0, len(factories))
	for method, meta := range factories {
		if meta.Operation == nil {
			return nil, core.NewConfigurationError(
				"cannot synthesize a definition: method %q has no operation descriptor registered", method)
		}
		ops = append(ops, meta.Operation)
	}
	return core.NewServiceDefinition(serviceName, ops)
}

// Binding is the validated result of binding a handler to a definition: the
// frozen definition plus the method-name -> factory map the dispatcher
// drives at request time.
type Binding struct {
	handlerType reflect.Type
	def         *core.ServiceDefinition
	methods     map[string]*registry.MethodMetadata
}

// Definition returns the bound (possibly synthesized) definition.
func (b *Binding) Definition() *core.ServiceDefinition {
	return b.def
}

// Method returns the factory and descriptor bound to a method name.
func (b *Binding) Method(methodName string) (handler.Factory, *core.Operation, bool) {
	meta, ok := b.methods[methodName]
	if !ok {
		return nil, nil, false
	}
	return meta.Factory, meta.Operation, true
}

// ResolveOperation maps a user-facing operation name to its factory and
// definition descriptor.
func (b *Binding) ResolveOperation(name string) (handler.Factory, *core.Operation, bool) {
	op, ok := b.def.Operation(name)
	if !ok {
		return nil, nil, false
	}
	factory, _, ok := b.Method(op.MethodName())
	if !ok {
		return nil, nil, false
	}
	return factory, op, true
}

// MethodNames returns the bound method names sorted alphabetically.
func (b *Binding) MethodNames() []string {
	names := make([]string, 0, len(b.methods))
	for m := range b.methods {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// HandlerType returns the bound handler's type.
func (b *Binding) HandlerType() reflect.Type {
	return b.handlerType
}

func (b *Binding) String() string {
	return fmt.Sprintf("binding %s -> %s", b.handlerType, b.def.Name())
}

// BindHandler runs discovery and validation for a handler value. With a
// nil definition one is synthesized from the handler's descriptors. The
// resolved binding is recorded in the registry so the dispatch layer can
// look up factories by method identity.
func BindHandler(h any, def *core.ServiceDefinition, opts ...Option) (*Binding, error) {
	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}

	factories, err := CollectFactories(h, def, opts...)
	if err != nil {
		return nil, err
	}

	if def == nil {
		name := o.Name
		if name == "" {
			hv := reflect.ValueOf(h)
			if !hv.IsValid() {
				return nil, core.NewConfigurationError("handler must not be nil")
			}
			t := hv.Type()
			for t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
			name = t.Name()
		}
		def, err = Synthesize(name, factories)
		if err != nil {
			return nil, err
		}
	} else if err := Validate(h, factories, def); err != nil {
		return nil, err
	}

	ht := reflect.ValueOf(h).Type()
	for method, meta := range factories {
		o.Registry.SetMethodBinding(ht, method, meta.Factory, meta.Operation)
	}
	if _, registered := o.Registry.Definition(ht); !registered {
		// Best effort: a handler type bound against two different
		// definitions keeps the first.
		_ = o.Registry.RegisterDefinition(ht, def)
	}

	return &Binding{handlerType: ht, def: def, methods: factories}, nil
}
