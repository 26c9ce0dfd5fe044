package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSetWeightsCommandIsNotConstructed = errors.New(
	"SetWeightsCommand must be created via NewSetWeightsCommand constructor",
)

// SetWeightsCommand changes some or all scoring weights of the running engine.
type SetWeightsCommand struct {
	update assignment.WeightsUpdate

	guard guard.ConstructorGuard
}

// NewSetWeightsCommand requires at least one weight to be supplied.
func NewSetWeightsCommand(update assignment.WeightsUpdate) (SetWeightsCommand, error) {
	if update.Distance == nil && update.Performance == nil && update.Load == nil && update.Zone == nil {
		return SetWeightsCommand{}, errs.NewValueIsRequiredError("weights")
	}
	return SetWeightsCommand{
		update: update,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SetWeightsCommand) Update() assignment.WeightsUpdate {
	return c.update
}

func (c SetWeightsCommand) Validate() error {
	return c.guard.Validate(ErrSetWeightsCommandIsNotConstructed)
}
