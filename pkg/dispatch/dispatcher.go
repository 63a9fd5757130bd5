package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ramsthapit/service-contracts/pkg/handler"
	"github.com/ramsthapit/service-contracts/pkg/service"
	"github.com/ramsthapit/service-contracts/pkg/storage"
)

var (
	// ErrUnknownOperation indicates a start request for an operation the
	// bound definition does not contain.
	ErrUnknownOperation = errors.New("contracts: unknown operation")

	// ErrNoStore indicates a lifecycle call that requires an operation
	// store on a dispatcher configured without one.
	ErrNoStore = errors.New("contracts: dispatcher has no operation store configured")

	// ErrNotCancellable indicates a cancel request for an operation that
	// already reached a terminal state.
	ErrNotCancellable = errors.New("contracts: operation already reached a terminal state")

	// ErrOperationCancelled indicates a result request for a cancelled
	// operation.
	ErrOperationCancelled = errors.New("contracts: operation was cancelled")
)

// OperationFailedError carries the recorded failure of an async operation.
type OperationFailedError struct {
	Token   string
	Message string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("contracts: operation %s failed: %s", e.Token, e.Message)
}

// Dispatcher drives the operation-handler lifecycle for one bound service.
// It is safe for concurrent use: the binding is frozen and every
// invocation gets its own OperationHandler instance.
type Dispatcher struct {
	binding *service.Binding
	store   storage.OperationStore
	logger  *slog.Logger
	ttl     time.Duration
}

// New creates a Dispatcher for a validated handler binding.
func New(binding *service.Binding, opts ...Option) *Dispatcher {
	cfg := Config{}
	for _, opt := range opts {
		opt.Apply(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Dispatcher{
		binding: binding,
		store:   cfg.Store,
		logger:  cfg.Logger,
		ttl:     cfg.RecordTTL,
	}
}

// Binding returns the dispatcher's handler binding.
func (d *Dispatcher) Binding() *service.Binding {
	return d.binding
}

// StartOperation resolves an operation by name, constructs a fresh handler
// and starts it. A sync result carries the final output; an async result's
// token is recorded in the store for later FetchInfo/FetchResult/Cancel
// calls.
func (d *Dispatcher) StartOperation(ctx context.Context, name string, input any, sc *handler.StartContext) (handler.StartResult, error) {
	factory, op, ok := d.binding.ResolveOperation(name)
	if !ok {
		return handler.StartResult{}, fmt.Errorf("%w: %q in service %q", ErrUnknownOperation, name, d.binding.Definition().Name())
	}
	if sc == nil {
		sc = &handler.StartContext{}
	}

	h, err := factory()
	if err != nil {
		return handler.StartResult{}, err
	}
	result, err := h.Start(ctx, sc, input)
	if err != nil {
		return handler.StartResult{}, err
	}

	token, async := result.Token()
	if !async {
		d.logger.Debug("operation completed synchronously",
			"service", d.binding.Definition().Name(), "operation", name)
		return result, nil
	}

	if d.store != nil {
		rec := &storage.OperationRecord{
			Token:      token,
			Service:    d.binding.Definition().Name(),
			Operation:  op.Name(),
			MethodName: op.MethodName(),
			Status:     handler.StateRunning,
			StartedAt:  time.Now(),
		}
		if raw, err := json.Marshal(input); err == nil {
			rec.Input = raw
		}
		if d.ttl > 0 {
			expires := rec.StartedAt.Add(d.ttl)
			rec.ExpiresAt = &expires
		}
		if err := d.withRetry(ctx, func(ctx context.Context) error {
			return d.store.Save(ctx, rec)
		}); err != nil {
			return handler.StartResult{}, err
		}
	}
	d.logger.Info("operation started",
		"service", d.binding.Definition().Name(), "operation", name, "token", token)
	return result, nil
}

// FetchInfo returns a status snapshot for an async operation. Terminal
// states are answered from the record; a running operation is asked
// directly, since its implementation may consult an external system.
func (d *Dispatcher) FetchInfo(ctx context.Context, token string, fc *handler.FetchInfoContext) (*handler.OperationInfo, error) {
	rec, err := d.record(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec.Status.Terminal() {
		return &handler.OperationInfo{Token: token, State: rec.Status}, nil
	}
	if fc == nil {
		fc = &handler.FetchInfoContext{}
	}
	h, err := d.handlerFor(rec)
	if err != nil {
		return nil, err
	}
	return h.FetchInfo(ctx, fc, token)
}

// FetchResult returns the final output of an async operation. A recorded
// result is returned as raw JSON; a still-running operation is delegated
// to its handler, which may block until completion, and the outcome is
// recorded.
func (d *Dispatcher) FetchResult(ctx context.Context, token string, fc *handler.FetchResultContext) (any, error) {
	rec, err := d.record(ctx, token)
	if err != nil {
		return nil, err
	}
	switch rec.Status {
	case handler.StateSucceeded:
		return json.RawMessage(rec.Result), nil
	case handler.StateFailed:
		return nil, &OperationFailedError{Token: token, Message: rec.LastError}
	case handler.StateCancelled:
		return nil, ErrOperationCancelled
	}

	if fc == nil {
		fc = &handler.FetchResultContext{Wait: true}
	}
	h, err := d.handlerFor(rec)
	if err != nil {
		return nil, err
	}
	output, err := h.FetchResult(ctx, fc, token)
	if err != nil {
		return nil, err
	}
	if err := d.CompleteOperation(ctx, token, output, nil); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return output, nil
}

// Cancel requests cooperative cancellation of a running async operation
// and records the transition. Cancelling a terminal operation fails with
// ErrNotCancellable.
func (d *Dispatcher) Cancel(ctx context.Context, token string, cc *handler.CancelContext) error {
	rec, err := d.record(ctx, token)
	if err != nil {
		return err
	}
	if rec.Status.Terminal() {
		return ErrNotCancellable
	}
	if cc == nil {
		cc = &handler.CancelContext{}
	}
	h, err := d.handlerFor(rec)
	if err != nil {
		return err
	}
	if err := h.Cancel(ctx, cc, token); err != nil {
		return err
	}
	if err := d.withRetry(ctx, func(ctx context.Context) error {
		return d.store.MarkCancelled(ctx, token)
	}); err != nil {
		return err
	}
	d.logger.Info("operation cancelled",
		"service", rec.Service, "operation", rec.Operation, "token", token)
	return nil
}

// CompleteOperation records the terminal outcome of an async operation.
// Asynchronous implementations call this when their external work
// finishes.
func (d *Dispatcher) CompleteOperation(ctx context.Context, token string, result any, opErr error) error {
	if d.store == nil {
		return ErrNoStore
	}
	var raw []byte
	var msg string
	if opErr != nil {
		msg = opErr.Error()
	} else {
		var err error
		raw, err = json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal operation result: %w", err)
		}
	}
	if err := d.withRetry(ctx, func(ctx context.Context) error {
		return d.store.Complete(ctx, token, raw, msg)
	}); err != nil {
		return err
	}
	d.logger.Info("operation completed", "token", token, "failed", opErr != nil)
	return nil
}

// RunJanitor removes expired operation records each time the schedule
// fires. Blocks until the context is cancelled.
func (d *Dispatcher) RunJanitor(ctx context.Context, s Schedule) error {
	if d.store == nil {
		return ErrNoStore
	}
	for {
		next := s.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			removed, err := d.store.DeleteExpired(ctx, now)
			if err != nil {
				d.logger.Warn("janitor sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				d.logger.Info("janitor removed expired operation records", "count", removed)
			}
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, token string) (*storage.OperationRecord, error) {
	if d.store == nil {
		return nil, ErrNoStore
	}
	var rec *storage.OperationRecord
	err := d.withRetry(ctx, func(ctx context.Context) error {
		var err error
		rec, err = d.store.Get(ctx, token)
		return err
	})
	return rec, err
}

func (d *Dispatcher) handlerFor(rec *storage.OperationRecord) (handler.OperationHandler, error) {
	factory, _, ok := d.binding.Method(rec.MethodName)
	if !ok {
		return nil, fmt.Errorf("%w: method %q", ErrUnknownOperation, rec.MethodName)
	}
	return factory()
}

// withRetry executes a store task with Fibonacci backoff. Missing records
// are permanent and returned immediately.
func (d *Dispatcher) withRetry(ctx context.Context, task func(ctx context.Context) error) error {
	b := retry.NewFibonacci(100 * time.Millisecond)
	return retry.Do(ctx, retry.WithMaxRetries(3, b), func(ctx context.Context) error {
		if err := task(ctx); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}
