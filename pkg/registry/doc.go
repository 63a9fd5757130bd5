// Package registry provides the explicit side tables that attach contract
// metadata to types: service struct -> ServiceDefinition, and handler
// method -> Operation descriptor plus factory.
//
// Registration happens once, at declaration time. Lookups are read-only and
// safe for concurrent use by the dispatch layer.
//
// Most users should import the root package
// github.com/ramsthapit/service-contracts which re-exports the registration
// helpers.
package registry
