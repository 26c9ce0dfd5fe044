package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DeliveryStore is the order store's view of driver workload.
type DeliveryStore interface {
	// CountActiveDeliveries counts deliveries held by driverID in status
	// assigned, picked_up or in_transit.
	CountActiveDeliveries(ctx context.Context, driverID kernel.UUID) (int, error)

	// AssignDriver moves a pending order to assigned and attaches driverID.
	// It fails with errs.ErrObjectNotFound for unknown orders and with a
	// status error for orders that are no longer pending.
	AssignDriver(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID) error
}

// PendingOrderSource lists orders still waiting for a driver, oldest first.
type PendingOrderSource interface {
	ListPending(ctx context.Context, limit int) ([]*order.Order, error)
}

// OrderIntake accepts newly placed orders into the order store as pending.
type OrderIntake interface {
	AddPending(ctx context.Context, o *order.Order) error
}
