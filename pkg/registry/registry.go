package registry

import (
	"reflect"
	"sync"

	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/handler"
)

// MethodMetadata is the contract metadata attached to one handler method:
// the operation descriptor it implements and, once the handler is bound,
// the factory that constructs per-invocation OperationHandler instances.
type MethodMetadata struct {
	Operation *core.Operation
	Factory   handler.Factory
}

type methodKey struct {
	handlerType reflect.Type
	method      string
}

// Registry maps type identities to contract metadata. Declaration-time
// writes and request-time reads may overlap across packages, so access is
// guarded; after declaration the registry is effectively read-only.
type Registry struct {
	mu          sync.RWMutex
	definitions map[reflect.Type]*core.ServiceDefinition
	methods     map[methodKey]*MethodMetadata
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		definitions: make(map[reflect.Type]*core.ServiceDefinition),
		methods:     make(map[methodKey]*MethodMetadata),
	}
}

var defaultRegistry = New()

// Default returns the process-wide registry used when no explicit registry
// is supplied.
func Default() *Registry {
	return defaultRegistry
}

// keyType normalizes a type for use as a registry key so that a handler
// registered as *H and bound as H (or vice versa) share metadata.
func keyType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// RegisterDefinition attaches a frozen ServiceDefinition to a service type.
// Registering the same type twice fails with a DefinitionError: a service
// is declared exactly once.
func (r *Registry) RegisterDefinition(serviceType reflect.Type, def *core.ServiceDefinition) error {
	key := keyType(serviceType)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[key]; exists {
		return core.NewDefinitionError("service definition already registered for %s", key)
	}
	r.definitions[key] = def
	return nil
}

// Definition returns the ServiceDefinition attached to a service type.
func (r *Registry) Definition(serviceType reflect.Type) (*core.ServiceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[keyType(serviceType)]
	return def, ok
}

// RegisterOperation attaches an operation descriptor to a handler method.
// The descriptor's method name defaults to the method's own name; when set
// explicitly it must match. Registering the same method twice fails with a
// DefinitionError.
func (r *Registry) RegisterOperation(handlerType reflect.Type, method string, op *core.Operation) error {
	if op == nil {
		return core.NewDefinitionError("operation descriptor for method %q must not be nil", method)
	}
	if op.MethodName() == "" {
		op = op.WithMethodName(method)
	} else if op.MethodName() != method {
		return core.NewDefinitionError("operation %q declares method name %q but is registered on method %q", op.Name(), op.MethodName(), method)
	}

	key := methodKey{handlerType: keyType(handlerType), method: method}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[key]; exists {
		return core.NewDefinitionError("operation already registered for method %s.%s", key.handlerType, method)
	}
	r.methods[key] = &MethodMetadata{Operation: op}
	return nil
}

// Operation returns the descriptor attached to a handler method.
func (r *Registry) Operation(handlerType reflect.Type, method string) (*core.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.methods[methodKey{handlerType: keyType(handlerType), method: method}]
	if !ok || meta.Operation == nil {
		return nil, false
	}
	return meta.Operation, true
}

// SetMethodBinding records the resolved factory and (possibly enriched)
// descriptor for a handler method. The binder calls this after validation.
func (r *Registry) SetMethodBinding(handlerType reflect.Type, method string, factory handler.Factory, op *core.Operation) {
	key := methodKey{handlerType: keyType(handlerType), method: method}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[key] = &MethodMetadata{Operation: op, Factory: factory}
}

// Method returns the factory and descriptor bound to a handler method. The
// factory is nil until the handler type has been bound.
func (r *Registry) Method(handlerType reflect.Type, method string) (handler.Factory, *core.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.methods[methodKey{handlerType: keyType(handlerType), method: method}]
	if !ok {
		return nil, nil, false
	}
	return meta.Factory, meta.Operation, true
}
