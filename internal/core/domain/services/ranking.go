package services

import (
	"cmp"
	"slices"

	"dispatch/internal/core/domain/model/assignment"
)

// Rank returns a copy of scores ordered best-first for algorithm. The input is
// not modified. Driver id is the last tie-breaker so equal candidates always
// rank the same way.
//
//   - nearest: smallest distance, then higher final score
//   - load_balancing: fewest active deliveries, then higher final score
//   - smart_routing and ml_based: higher final score, then smaller distance
func Rank(scores []assignment.Score, algorithm assignment.Algorithm) []assignment.Score {
	ranked := slices.Clone(scores)

	var compare func(a, b assignment.Score) int
	switch algorithm.Effective() {
	case assignment.Nearest:
		compare = func(a, b assignment.Score) int {
			return firstNonZero(
				cmp.Compare(a.EstimatedDistanceKm, b.EstimatedDistanceKm),
				cmp.Compare(b.FinalScore, a.FinalScore),
				compareIDs(a, b),
			)
		}
	case assignment.LoadBalancing:
		compare = func(a, b assignment.Score) int {
			return firstNonZero(
				cmp.Compare(a.ActiveDeliveries, b.ActiveDeliveries),
				cmp.Compare(b.FinalScore, a.FinalScore),
				compareIDs(a, b),
			)
		}
	default:
		compare = func(a, b assignment.Score) int {
			return firstNonZero(
				cmp.Compare(b.FinalScore, a.FinalScore),
				cmp.Compare(a.EstimatedDistanceKm, b.EstimatedDistanceKm),
				compareIDs(a, b),
			)
		}
	}

	slices.SortStableFunc(ranked, compare)
	return ranked
}

func compareIDs(a, b assignment.Score) int {
	switch {
	case a.DriverID.Less(b.DriverID):
		return -1
	case b.DriverID.Less(a.DriverID):
		return 1
	default:
		return 0
	}
}

func firstNonZero(results ...int) int {
	for _, r := range results {
		if r != 0 {
			return r
		}
	}
	return 0
}
