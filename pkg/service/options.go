package service

import (
	"github.com/ramsthapit/service-contracts/pkg/registry"
)

// Options holds configuration for binding a handler.
type Options struct {
	Name     string
	Registry *registry.Registry
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Registry: registry.Default(),
	}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// WithName sets the service name used when a definition is synthesized
// from the handler. Defaults to the handler type's name.
func WithName(name string) Option {
	return optionFunc(func(o *Options) {
		o.Name = name
	})
}

// WithRegistry selects the registry holding the handler's operation
// descriptors. Defaults to the process-wide registry.
func WithRegistry(reg *registry.Registry) Option {
	return optionFunc(func(o *Options) {
		o.Registry = reg
	})
}
