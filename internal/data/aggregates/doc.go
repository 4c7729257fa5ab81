// Package aggregates implements the case aggregate writer over the
// intervention table repos.
//
// Create and Patch run in one transaction opened here; status transitions
// are a single guarded UPDATE. Every outcome is reported through Hooks and
// mapped onto domain/aggregates error codes.
package aggregates
