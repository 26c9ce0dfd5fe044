package assignment

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// MaxAlternates is the number of runner-up candidates returned with a
// successful result for re-offer.
const MaxAlternates = 4

const (
	ReasonNoDriversInRange   = "no available drivers in range"
	ReasonAllDriversAtLimit  = "all candidate drivers are at capacity"
	ReasonInvalidOrder       = "order is invalid"
	ReasonAssignmentCanceled = "assignment canceled"
)

// Result is the outcome of one assignment attempt. On failure DriverID and
// Score are nil and Reason explains why.
type Result struct {
	Success        bool
	OrderID        kernel.UUID
	Algorithm      Algorithm
	DriverID       *kernel.UUID
	Score          *Score
	Alternates     []Score
	CandidateCount int
	Reason         string
	RecordID       *kernel.UUID
	Duration       time.Duration
}

// Succeeded builds a successful result. alternates beyond MaxAlternates are dropped.
func Succeeded(orderID kernel.UUID, algorithm Algorithm, winner Score, alternates []Score, candidates int) Result {
	if len(alternates) > MaxAlternates {
		alternates = alternates[:MaxAlternates]
	}
	driverID := winner.DriverID
	return Result{
		Success:        true,
		OrderID:        orderID,
		Algorithm:      algorithm,
		DriverID:       &driverID,
		Score:          &winner,
		Alternates:     append([]Score(nil), alternates...),
		CandidateCount: candidates,
	}
}

// Failed builds a failure result carrying reason.
func Failed(orderID kernel.UUID, algorithm Algorithm, reason string, candidates int) Result {
	return Result{
		OrderID:        orderID,
		Algorithm:      algorithm,
		CandidateCount: candidates,
		Reason:         reason,
	}
}
