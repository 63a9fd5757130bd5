// Package contracts is a contract-definition and validation framework for
// remote-operation services.
//
// A service definition declares which operations exist; a service handler
// supplies the code that implements them. Both are validated once, at
// declaration time, and frozen — the dispatch layer then drives the
// operation-handler lifecycle against the validated binding.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Declare the service
//	type GreetService struct {
//	    Greet contracts.Op[string, string]
//	}
//	def, _ := contracts.DefineService(GreetService{})
//
//	// Implement it
//	type GreetHandler struct{}
//
//	func (h *GreetHandler) Greet() (contracts.OperationHandler, error) {
//	    return contracts.NewSyncHandler(func(ctx context.Context, name string) (string, error) {
//	        return "hello " + name, nil
//	    })
//	}
//
//	op, _ := contracts.NewOperation("Greet", "Greet", nil, nil)
//	contracts.RegisterOperation[*GreetHandler]("Greet", op)
//
//	// Bind and dispatch
//	binding, _ := contracts.BindHandler(&GreetHandler{}, def)
//	d := contracts.NewDispatcher(binding)
//	result, _ := d.StartOperation(ctx, "Greet", "world", nil)
package contracts

import (
	"context"
	"reflect"
	"time"

	"gorm.io/gorm"

	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/definition"
	"github.com/ramsthapit/service-contracts/pkg/dispatch"
	"github.com/ramsthapit/service-contracts/pkg/handler"
	"github.com/ramsthapit/service-contracts/pkg/registry"
	"github.com/ramsthapit/service-contracts/pkg/service"
	"github.com/ramsthapit/service-contracts/pkg/storage"
)

type (
	// Operation is the immutable descriptor for one remote operation.
	Operation = core.Operation

	// ServiceDefinition is a frozen, validated set of operations.
	ServiceDefinition = core.ServiceDefinition

	// DefinitionError indicates a malformed or colliding declaration.
	DefinitionError = core.DefinitionError

	// TypeMismatchError indicates a declared-vs-inferred type conflict or
	// a handler/definition variance violation.
	TypeMismatchError = core.TypeMismatchError

	// ConfigurationError indicates missing registration metadata or
	// construction misuse.
	ConfigurationError = core.ConfigurationError

	// MissingImplementationError indicates a definition operation with no
	// corresponding handler method.
	MissingImplementationError = core.MissingImplementationError

	// UnsupportedOperationError indicates a call to an unreachable
	// lifecycle method.
	UnsupportedOperationError = core.UnsupportedOperationError

	// OperationHandler is the four-method operation lifecycle.
	OperationHandler = handler.OperationHandler

	// Factory constructs a fresh OperationHandler per invocation.
	Factory = handler.Factory

	// StartResult is the sync-output-or-async-token outcome of Start.
	StartResult = handler.StartResult

	// OperationInfo is a point-in-time operation status snapshot.
	OperationInfo = handler.OperationInfo

	// OperationState is the externally visible state of an operation.
	OperationState = handler.OperationState

	// Header carries transport metadata for a lifecycle call.
	Header = handler.Header

	// StartContext carries call-scoped metadata for Start.
	StartContext = handler.StartContext

	// FetchInfoContext carries call-scoped metadata for FetchInfo.
	FetchInfoContext = handler.FetchInfoContext

	// FetchResultContext carries call-scoped metadata for FetchResult.
	FetchResultContext = handler.FetchResultContext

	// CancelContext carries call-scoped metadata for Cancel.
	CancelContext = handler.CancelContext

	// SyncHandler is the restricted synchronous-only handler.
	SyncHandler = handler.SyncHandler

	// Binding is a validated handler-to-definition binding.
	Binding = service.Binding

	// Registry maps type identities to contract metadata.
	Registry = registry.Registry

	// Dispatcher drives the operation lifecycle for one bound service.
	Dispatcher = dispatch.Dispatcher

	// Schedule defines when the janitor runs next.
	Schedule = dispatch.Schedule

	// OperationRecord tracks one asynchronous operation.
	OperationRecord = storage.OperationRecord

	// OperationStore persists async operation records.
	OperationStore = storage.OperationStore

	// GormStore implements OperationStore using GORM.
	GormStore = storage.GormStore
)

// Op declares an operation as a field on a service struct.
type Op[I, O any] = core.Op[I, O]

// Operation state constants.
const (
	StateRunning   = handler.StateRunning
	StateSucceeded = handler.StateSucceeded
	StateFailed    = handler.StateFailed
	StateCancelled = handler.StateCancelled
)

// NewOperation builds an Operation descriptor with explicit type tokens.
func NewOperation(name, methodName string, input, output reflect.Type) (*Operation, error) {
	return core.NewOperation(name, methodName, input, output)
}

// NewTypedOperation builds an Operation descriptor from type parameters.
func NewTypedOperation[I, O any](name, methodName string) (*Operation, error) {
	return core.NewOperation(name, methodName, reflect.TypeFor[I](), reflect.TypeFor[O]())
}

// DefineService scans a service struct declaration, producing a frozen
// ServiceDefinition registered against the struct's type.
func DefineService(svc any, opts ...definition.Option) (*ServiceDefinition, error) {
	return definition.Build(svc, opts...)
}

// NewDefinition builds a ServiceDefinition from explicit descriptors.
func NewDefinition(name string, ops []*Operation, opts ...definition.Option) (*ServiceDefinition, error) {
	return definition.New(name, ops, opts...)
}

// WithName overrides the service name.
func WithName(name string) definition.Option { return definition.WithName(name) }

// WithBase merges a previously built definition under strict no-override
// rules.
func WithBase(def *ServiceDefinition) definition.Option { return definition.WithBase(def) }

// NewSyncHandler wraps func(ctx, I) (O, error) as a synchronous-only
// operation handler.
func NewSyncHandler(fn any) (*SyncHandler, error) {
	return handler.NewSyncHandler(fn)
}

// SyncOperation binds an operation name to a typed function, producing the
// descriptor and factory pair in one call.
func SyncOperation[I, O any](name string, fn func(ctx context.Context, input I) (O, error)) (*Operation, Factory) {
	return handler.SyncOperation(name, fn)
}

// SyncResult wraps a final output produced directly by Start.
func SyncResult(output any) StartResult { return handler.SyncResult(output) }

// AsyncResult wraps an opaque token for an operation completing later.
func AsyncResult(token string) StartResult { return handler.AsyncResult(token) }

// NewToken generates an opaque operation token.
func NewToken() string { return handler.NewToken() }

// RegisterOperation attaches an operation descriptor to a method of
// handler type H in the process-wide registry.
func RegisterOperation[H any](method string, op *Operation) error {
	return registry.Default().RegisterOperation(reflect.TypeFor[H](), method, op)
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return registry.Default() }

// BindHandler discovers and validates a handler against a definition; with
// a nil definition one is synthesized from the handler's descriptors.
func BindHandler(h any, def *ServiceDefinition, opts ...service.Option) (*Binding, error) {
	return service.BindHandler(h, def, opts...)
}

// NewDispatcher creates a Dispatcher for a validated binding.
func NewDispatcher(binding *Binding, opts ...dispatch.Option) *Dispatcher {
	return dispatch.New(binding, opts...)
}

// WithStore sets the dispatcher's operation store.
func WithStore(store OperationStore) dispatch.Option { return dispatch.WithStore(store) }

// NewGormStore creates a GORM-backed operation store.
func NewGormStore(db *gorm.DB) *GormStore { return storage.NewGormStore(db) }

// Every creates a fixed-interval janitor schedule.
func Every(d time.Duration) Schedule { return dispatch.Every(d) }

// Cron creates a janitor schedule from a cron expression.
func Cron(expr string) Schedule { return dispatch.Cron(expr) }
