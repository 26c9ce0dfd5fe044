package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentLedger persists assignment decisions for audit and analytics.
type AssignmentLedger interface {
	Record(ctx context.Context, record assignment.Record) error

	// ListByOrder returns every record written for orderID, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]assignment.Record, error)
}
