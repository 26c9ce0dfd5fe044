// Package courier models couriers as the assignment engine sees them.
//
// The package includes:
//   - Driver: a driver directory record with eligibility flags, performance
//     statistics, vehicle and zones, and an optional last known position
//   - Candidate: a decision-time snapshot pairing a Driver with its distance to
//     the pickup and its current count of active deliveries
//
// Candidates are rebuilt for every assignment attempt and must never be cached:
// positions and loads change continuously.
package courier
