// Package handler defines the operation-handler lifecycle for the
// contracts package.
//
// This package includes:
//   - OperationHandler: the four-method lifecycle (start, fetch info,
//     fetch result, cancel) every operation implementation satisfies
//   - StartResult: the sync-output-or-async-token outcome of Start
//   - The per-phase context values carrying call-scoped metadata
//   - SyncHandler: the restricted synchronous-only implementation
//
// Most users should import the root package
// github.com/ramsthapit/service-contracts which re-exports these types.
package handler
