// Package services provides the stateless domain services of the assignment
// engine:
//   - the four component scorers (distance, performance, load, zone) and the
//     Scorer that combines them under a set of Weights
//   - Rank, which orders scored candidates for a selection Algorithm
//   - FareCalculator, which quotes a delivery fare from distance and time
//
// Every function here is pure; callers own all state.
package services
