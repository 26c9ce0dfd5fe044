package courier

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// VehicleType is the courier's mode of transport.
type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleScooter    VehicleType = "scooter"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
)

// ParseVehicleType accepts the lower-case names above, case-insensitively.
func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}

func (v VehicleType) Validate() error {
	switch v {
	case VehicleBicycle, VehicleScooter, VehicleMotorcycle, VehicleCar:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("vehicle type", fmt.Errorf("%q is not supported", string(v)))
	}
}

func (v VehicleType) String() string {
	return string(v)
}
