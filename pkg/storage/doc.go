// Package storage persists records of asynchronous operations so their
// status and results survive between lifecycle calls.
package storage
