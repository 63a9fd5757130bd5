package handler

import (
	"context"
	"reflect"

	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/internal/typing"
)

// SyncHandler wraps a single function as an operation that always responds
// synchronously. Its FetchInfo, FetchResult and Cancel methods are
// permanently unreachable: there is never a pending operation to address.
type SyncHandler struct {
	fn *typing.Func
}

// NewSyncHandler builds a SyncHandler from a function of the form
//
//	func(ctx context.Context, input I) (O, error)
//
// Any other shape fails with a ConfigurationError.
func NewSyncHandler(fn any) (*SyncHandler, error) {
	parsed, err := typing.ParseFunc(fn)
	if err != nil {
		return nil, core.WrapConfigurationError(err, "sync handler requires func(ctx, input) (output, error)")
	}
	return &SyncHandler{fn: parsed}, nil
}

// Start invokes the wrapped function and returns its output as a sync
// result. The operation is complete when Start returns.
func (h *SyncHandler) Start(ctx context.Context, sc *StartContext, input any) (StartResult, error) {
	output, err := h.fn.Call(ctx, input)
	if err != nil {
		return StartResult{}, err
	}
	return SyncResult(output), nil
}

// FetchInfo always fails: a synchronous operation has no pending state.
func (h *SyncHandler) FetchInfo(ctx context.Context, fc *FetchInfoContext, token string) (*OperationInfo, error) {
	return nil, core.NewUnsupportedOperationError("cannot fetch info for an operation that responded synchronously")
}

// FetchResult always fails: the result was already delivered by Start.
func (h *SyncHandler) FetchResult(ctx context.Context, fc *FetchResultContext, token string) (any, error) {
	return nil, core.NewUnsupportedOperationError("cannot fetch the result of an operation that responded synchronously")
}

// Cancel always fails: there is nothing in flight to cancel.
func (h *SyncHandler) Cancel(ctx context.Context, cc *CancelContext, token string) error {
	return core.NewUnsupportedOperationError("cannot cancel an operation that responded synchronously")
}

// InputType returns the wrapped function's input type.
func (h *SyncHandler) InputType() reflect.Type {
	return h.fn.Input
}

// OutputType returns the wrapped function's output type.
func (h *SyncHandler) OutputType() reflect.Type {
	return h.fn.Output
}

// SyncOperation binds an operation name to a typed function, producing the
// descriptor and factory pair in one call. The method name is left for the
// registration site to fill in. It panics on an empty name; the name is
// part of the declaration, not runtime input.
func SyncOperation[I, O any](name string, fn func(context.Context, I) (O, error)) (*core.Operation, Factory) {
	op, err := core.NewOperation(name, "", reflect.TypeFor[I](), reflect.TypeFor[O]())
	if err != nil {
		panic(err.Error())
	}
	factory := func() (OperationHandler, error) {
		return NewSyncHandler(fn)
	}
	return op, factory
}
