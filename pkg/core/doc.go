// Package core provides the domain records and error taxonomy for the
// contracts package.
//
// This package includes:
//   - Operation: the immutable descriptor for one remote operation
//   - ServiceDefinition: a frozen, validated set of operations
//   - Op: the generic field marker used to declare operations on a struct
//   - The error types raised at declaration and binding time
//
// Most users should import the root package
// github.com/ramsthapit/service-contracts which re-exports these types.
package core
