// Package service binds handler types to service definitions.
//
// A service handler is a struct whose factory methods (methods returning an
// OperationHandler) implement the operations of a ServiceDefinition. This
// package discovers those methods, checks them against the definition —
// including input contravariance and output covariance — and produces the
// method-name -> factory binding the dispatch layer drives at request time.
// When no definition is supplied, one is synthesized from the handler's own
// operation descriptors.
package service
