package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand asks the engine to pick a driver for one order.
// Algorithm is kept as received; the handler resolves it, falling back to
// smart_routing for names it does not know.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand(o, "load_balancing")
//	if err != nil {
//	    return err
//	}
//	result := handler.Handle(ctx, cmd)
type AssignOrderCommand struct {
	order     *order.Order
	algorithm string

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates the command. o must be a constructed order.
func NewAssignOrderCommand(o *order.Order, algorithm string) (AssignOrderCommand, error) {
	if o == nil {
		return AssignOrderCommand{}, errs.NewValueIsRequiredError("order")
	}
	if err := o.Validate(); err != nil {
		return AssignOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("order", err)
	}

	return AssignOrderCommand{
		order:     o,
		algorithm: algorithm,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Order() *order.Order {
	return c.order
}

func (c AssignOrderCommand) Algorithm() string {
	return c.algorithm
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}
