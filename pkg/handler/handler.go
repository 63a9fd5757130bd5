package handler

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// OperationState represents the externally visible state of an operation.
type OperationState string

const (
	StateRunning   OperationState = "running"
	StateSucceeded OperationState = "succeeded"
	StateFailed    OperationState = "failed"
	StateCancelled OperationState = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s OperationState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Header carries transport metadata for a single lifecycle call.
type Header map[string]string

// StartContext carries call-scoped metadata for Start. It must not be
// retained beyond the call.
type StartContext struct {
	Header    Header
	Deadline  time.Time
	RequestID string
}

// FetchInfoContext carries call-scoped metadata for FetchInfo.
type FetchInfoContext struct {
	Header   Header
	Deadline time.Time
}

// FetchResultContext carries call-scoped metadata for FetchResult.
type FetchResultContext struct {
	Header   Header
	Deadline time.Time

	// Wait asks the implementation to block until the operation reaches a
	// terminal state instead of failing fast while it is still running.
	Wait bool
}

// CancelContext carries call-scoped metadata for Cancel.
type CancelContext struct {
	Header   Header
	Deadline time.Time
}

// OperationInfo is a point-in-time status snapshot of an operation.
type OperationInfo struct {
	Token string
	State OperationState
}

// StartResult is the outcome of Start: exactly one of a synchronous output
// or an async operation token.
type StartResult struct {
	output any
	token  string
	async  bool
}

// SyncResult wraps a final output produced directly by Start.
func SyncResult(output any) StartResult {
	return StartResult{output: output}
}

// AsyncResult wraps an opaque token for an operation that will complete
// later. FetchInfo, FetchResult and Cancel address it by this token.
func AsyncResult(token string) StartResult {
	return StartResult{token: token, async: true}
}

// Sync returns the synchronous output, and whether this is a sync result.
func (r StartResult) Sync() (any, bool) {
	if r.async {
		return nil, false
	}
	return r.output, true
}

// Token returns the async operation token, and whether this is an async
// result.
func (r StartResult) Token() (string, bool) {
	if !r.async {
		return "", false
	}
	return r.token, true
}

// OperationHandler is the lifecycle every operation implementation
// satisfies. One instance serves one invocation and owns no shared mutable
// state; Start is the only transition out of the created state, returning
// either a final output or a token for a pending operation.
//
// Cancellation is cooperative: Cancel signals intent and does not forcibly
// interrupt an in-flight Start.
type OperationHandler interface {
	Start(ctx context.Context, sc *StartContext, input any) (StartResult, error)
	FetchInfo(ctx context.Context, fc *FetchInfoContext, token string) (*OperationInfo, error)
	FetchResult(ctx context.Context, fc *FetchResultContext, token string) (any, error)
	Cancel(ctx context.Context, cc *CancelContext, token string) error
}

// Factory constructs a fresh OperationHandler for one invocation.
type Factory func() (OperationHandler, error)

// TypedHandler is optionally implemented by handlers that know their
// input/output types, letting the binder infer an operation's type tokens
// from the implementation when the descriptor omitted them.
type TypedHandler interface {
	InputType() reflect.Type
	OutputType() reflect.Type
}

// NewToken generates an opaque operation token.
func NewToken() string {
	return uuid.New().String()
}
