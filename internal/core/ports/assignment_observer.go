package ports

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
)

// AssignmentObserver is notified once per assignment attempt.
type AssignmentObserver interface {
	ObserveAssignment(result assignment.Result, elapsed time.Duration)
}

// NopObserver discards observations.
type NopObserver struct{}

func (NopObserver) ObserveAssignment(assignment.Result, time.Duration) {}
