// Package typing provides internal reflection utilities for the contracts
// package.
//
// This package is internal and should not be imported directly.
// It provides:
//   - Universal-type detection and the subtype relation used for
//     contravariance/covariance checks between handlers and definitions
//   - Handler function shape validation and type extraction
//   - Reflection-based invocation with JSON argument coercion
package typing
