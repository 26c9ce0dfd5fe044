package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterDriverCommandIsNotConstructed = errors.New(
		"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
	)
)

// DriverProfile is the directory data of a driver as submitted by the fleet
// system.
type DriverProfile struct {
	ID       kernel.UUID
	Name     string
	Vehicle  string
	Stats    courier.Stats
	Flags    courier.Flags
	HomeZone string
}

// RegisterDriverCommand creates or replaces a driver record. Position is
// optional; when present the driver's current zone is resolved from it.
type RegisterDriverCommand struct {
	profile  DriverProfile
	vehicle  courier.VehicleType
	position *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(profile DriverProfile, position *kernel.GeoPoint) (RegisterDriverCommand, error) {
	if err := profile.ID.Validate(); err != nil {
		return RegisterDriverCommand{}, errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return RegisterDriverCommand{}, errs.NewValueIsRequiredError("name")
	}
	vehicle, err := courier.ParseVehicleType(profile.Vehicle)
	if err != nil {
		return RegisterDriverCommand{}, err
	}
	if position != nil {
		if err = position.Validate(); err != nil {
			return RegisterDriverCommand{}, errs.NewValueIsInvalidErrorWithCause("position", err)
		}
		p := *position
		position = &p
	}

	return RegisterDriverCommand{
		profile:  profile,
		vehicle:  vehicle,
		position: position,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) Profile() DriverProfile {
	return c.profile
}

func (c RegisterDriverCommand) Vehicle() courier.VehicleType {
	return c.vehicle
}

// Position reports the submitted position, if any.
func (c RegisterDriverCommand) Position() (kernel.GeoPoint, bool) {
	if c.position == nil {
		return kernel.GeoPoint{}, false
	}
	return *c.position, true
}
