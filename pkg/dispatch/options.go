package dispatch

import (
	"log/slog"
	"time"

	"github.com/ramsthapit/service-contracts/pkg/storage"
)

// Config holds dispatcher configuration.
type Config struct {
	Store     storage.OperationStore
	Logger    *slog.Logger
	RecordTTL time.Duration
}

// Option configures a Dispatcher.
type Option interface {
	Apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) Apply(c *Config) { f(c) }

// WithStore sets the operation store used to track async operations.
// Without a store, async start results are returned but not tracked.
func WithStore(store storage.OperationStore) Option {
	return optionFunc(func(c *Config) {
		c.Store = store
	})
}

// WithLogger sets the dispatcher's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		c.Logger = logger
	})
}

// WithRecordTTL sets how long async operation records are kept before the
// janitor may remove them. Zero keeps records indefinitely.
func WithRecordTTL(ttl time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.RecordTTL = ttl
	})
}
