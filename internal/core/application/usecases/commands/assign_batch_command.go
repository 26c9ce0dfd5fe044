package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignBatchCommandIsNotConstructed = errors.New(
	"AssignBatchCommand must be created via NewAssignBatchCommand constructor",
)

// AssignBatchCommand asks for a driver for every order in the batch.
// Orders are assigned by priority, urgent first; within a priority the
// submission order is kept.
type AssignBatchCommand struct {
	orders []*order.Order

	guard guard.ConstructorGuard
}

// NewAssignBatchCommand copies orders. An empty batch is valid; a nil or
// unconstructed order is not, and neither is an order id listed twice.
func NewAssignBatchCommand(orders []*order.Order) (AssignBatchCommand, error) {
	errList := make([]error, 0)
	seen := make(map[kernel.UUID]struct{}, len(orders))
	for _, o := range orders {
		if o == nil {
			errList = append(errList, errs.NewValueIsRequiredError("order"))
			continue
		}
		if err := o.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("order", err))
			continue
		}
		if _, dup := seen[o.ID()]; dup {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("order",
				fmt.Errorf("order %s is listed more than once", o.ID())))
			continue
		}
		seen[o.ID()] = struct{}{}
	}
	if err := errors.Join(errList...); err != nil {
		return AssignBatchCommand{}, err
	}

	return AssignBatchCommand{
		orders: append([]*order.Order(nil), orders...),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c AssignBatchCommand) Orders() []*order.Order {
	return append([]*order.Order(nil), c.orders...)
}

// Validate ensures the command was created through the constructor.
func (c AssignBatchCommand) Validate() error {
	return c.guard.Validate(ErrAssignBatchCommandIsNotConstructed)
}
