package definition

import (
	"github.com/ramsthapit/service-contracts/pkg/core"
	"github.com/ramsthapit/service-contracts/pkg/registry"
)

// Options holds configuration for building a ServiceDefinition.
type Options struct {
	Name     string
	Bases    []*core.ServiceDefinition
	Registry *registry.Registry
	Register bool
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{
		Registry: registry.Default(),
		Register: true,
	}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// WithName overrides the service name. Defaults to the declaring struct
// type's name.
func WithName(name string) Option {
	return optionFunc(func(o *Options) {
		o.Name = name
	})
}

// WithBase merges a previously built definition into this one, under the
// same strict no-override rules applied to embedded services.
func WithBase(def *core.ServiceDefinition) Option {
	return optionFunc(func(o *Options) {
		o.Bases = append(o.Bases, def)
	})
}

// WithRegistry selects the registry used for embedded-service lookups and
// for registering the built definition. Defaults to the process-wide
// registry.
func WithRegistry(reg *registry.Registry) Option {
	return optionFunc(func(o *Options) {
		o.Registry = reg
	})
}

// WithoutRegistration builds and validates the definition without
// attaching it to the service type.
func WithoutRegistration() Option {
	return optionFunc(func(o *Options) {
		o.Register = false
	})
}
