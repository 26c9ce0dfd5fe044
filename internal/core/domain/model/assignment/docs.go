// Package assignment holds the value types produced by the assignment engine:
// the selection Algorithm, the scoring Weights and their runtime registry,
// per-candidate Scores, the Result returned to callers and the Record written
// to the audit ledger.
package assignment
