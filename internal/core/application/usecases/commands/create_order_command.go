package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand places a new order in the order store as pending so it
// can be assigned.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), pickup, dropoff, 12, 340, "urgent")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct {
	order *order.Order

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates every field through order.NewOrder. An
// empty priority means normal.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
	prepMinutes int,
	value float64,
	priority string,
) (CreateOrderCommand, error) {
	p, err := order.ParsePriority(priority)
	if err != nil {
		return CreateOrderCommand{}, err
	}

	o, err := order.NewOrder(orderID, pickup, dropoff, prepMinutes, value, p)
	if err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{order: o, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Order() *order.Order {
	return c.order
}
