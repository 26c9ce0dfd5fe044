package ports

import "context"

// UnitOfWorkFactory creates one UnitOfWork per assignment attempt.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary around committing an assignment:
// the delivery status change and the ledger record succeed or fail together.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// DeliveryStore is bound to the transaction started by Begin.
	DeliveryStore() DeliveryStore

	// AssignmentLedger is bound to the transaction started by Begin.
	AssignmentLedger() AssignmentLedger
}
