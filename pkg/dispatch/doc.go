// Package dispatch drives the operation-handler lifecycle in process.
//
// A Dispatcher owns a validated handler binding: it resolves operations by
// name, constructs one OperationHandler per invocation, and records
// asynchronous operations in an OperationStore so their status and results
// can be fetched later. A janitor sweep removes expired records on a
// schedule.
//
// This package is the in-process counterpart of a transport layer; it
// performs no network I/O.
package dispatch
