// Package errs provides the typed validation and lookup errors shared by the
// dispatch service.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g., ErrValueIsRequired) returned by Unwrap
//   - a struct type carrying the offending parameter and an optional Cause
//   - constructors with and without cause
//
// Callers classify failures with errors.Is against the sentinels and extract
// details with errors.As against the struct types.
package errs
