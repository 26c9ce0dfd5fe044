package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetAssignmentHistoryQueryIsNotConstructed = errors.New(
		"GetAssignmentHistoryQuery must be created via NewGetAssignmentHistoryQuery constructor",
	)
)

// GetAssignmentHistoryQuery returns the ledger entries written for one order.
type GetAssignmentHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAssignmentHistoryQuery(orderID kernel.UUID) (GetAssignmentHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAssignmentHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	return GetAssignmentHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAssignmentHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetAssignmentHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignmentHistoryQueryIsNotConstructed)
}

// GetAssignmentHistoryQueryResponse is one ledger entry as shown to operators.
type GetAssignmentHistoryQueryResponse struct {
	RecordID            kernel.UUID
	DriverID            kernel.UUID
	Algorithm           assignment.Algorithm
	CandidateCount      int
	FinalScore          float64
	EstimatedMinutes    int
	EstimatedDistanceKm float64
	CreatedAt           time.Time
}
