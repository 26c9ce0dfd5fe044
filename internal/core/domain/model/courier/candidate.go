package courier

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrCandidateIsNotConstructed is returned for candidates not created through NewCandidate.
var ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

// Candidate is a driver considered for one specific order.
type Candidate struct {
	driver           *Driver
	position         kernel.GeoPoint
	distanceKm       float64
	activeDeliveries int

	isConstructed bool
}

// NewCandidate snapshots driver for an order whose pickup is distanceKm away.
// The driver must have a known position.
func NewCandidate(driver *Driver, distanceKm float64, activeDeliveries int) (*Candidate, error) {
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	position, ok := driver.Position()
	if !ok {
		return nil, errs.NewValueIsRequiredError("driver position")
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return nil, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v is not a distance", distanceKm))
	}
	if activeDeliveries < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"active deliveries", fmt.Errorf("%d is negative", activeDeliveries))
	}

	return &Candidate{
		driver:           driver,
		position:         position,
		distanceKm:       distanceKm,
		activeDeliveries: activeDeliveries,
		isConstructed:    true,
	}, nil
}

func (c *Candidate) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCandidateIsNotConstructed
	}
	return nil
}

func (c *Candidate) Driver() *Driver {
	return c.driver
}

func (c *Candidate) DriverID() kernel.UUID {
	return c.driver.ID()
}

func (c *Candidate) Position() kernel.GeoPoint {
	return c.position
}

// DistanceKm is the straight-line distance from the driver to the pickup.
func (c *Candidate) DistanceKm() float64 {
	return c.distanceKm
}

func (c *Candidate) ActiveDeliveries() int {
	return c.activeDeliveries
}

func (c *Candidate) Stats() Stats {
	return c.driver.Stats()
}

func (c *Candidate) CurrentZone() kernel.Zone {
	return c.driver.CurrentZone()
}

func (c *Candidate) HomeZone() kernel.Zone {
	return c.driver.HomeZone()
}
