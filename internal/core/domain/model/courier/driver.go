package courier

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
	MinRate   = 0.0
	MaxRate   = 100.0
)

// ErrDriverIsNotConstructed is returned for drivers not created through NewDriver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// Stats are the historical performance figures of a driver. Rates are
// percentages in [0, 100]; Rating is in [0, 5].
type Stats struct {
	Rating             float64
	CompletionRate     float64
	OnTimeRate         float64
	AcceptanceRate     float64
	LifetimeDeliveries int
}

// Flags are the directory-side status switches. A driver is eligible only
// when all four are set.
type Flags struct {
	Online    bool
	Available bool
	Active    bool
	Verified  bool
}

// Driver is a driver directory record.
//
// Invariants:
//   - id is a constructed UUID, name is not blank
//   - Stats are within their documented ranges
//   - position, when present, is a constructed GeoPoint
type Driver struct {
	id          kernel.UUID
	name        string
	vehicle     VehicleType
	stats       Stats
	flags       Flags
	position    *kernel.GeoPoint
	currentZone kernel.Zone
	homeZone    kernel.Zone

	isConstructed bool
}

// NewDriver validates the record. The driver starts without a known position;
// use Locate to attach one.
//
// Example:
//
//	d, err := courier.NewDriver(id, "Ravi", courier.VehicleMotorcycle,
//	    courier.Stats{Rating: 4.8, CompletionRate: 97, OnTimeRate: 92},
//	    courier.Flags{Online: true, Available: true, Active: true, Verified: true},
//	    kernel.NewZone("HYD-WEST"))
func NewDriver(
	id kernel.UUID,
	name string,
	vehicle VehicleType,
	stats Stats,
	flags Flags,
	homeZone kernel.Zone,
) (*Driver, error) {
	d := &Driver{
		flags:         flags,
		homeZone:      homeZone,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setVehicle(vehicle),
		d.setStats(stats),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Locate records the last known position and the zone the driver is in.
func (d *Driver) Locate(position kernel.GeoPoint, currentZone kernel.Zone) error {
	if err := position.Validate(); err != nil {
		return err
	}
	d.position = &position
	d.currentZone = currentZone
	return nil
}

func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Vehicle() VehicleType {
	return d.vehicle
}

func (d *Driver) Stats() Stats {
	return d.stats
}

func (d *Driver) Flags() Flags {
	return d.flags
}

// Position returns the last known position and false when none is known.
func (d *Driver) Position() (kernel.GeoPoint, bool) {
	if d.position == nil {
		return kernel.GeoPoint{}, false
	}
	return *d.position, true
}

func (d *Driver) CurrentZone() kernel.Zone {
	return d.currentZone
}

func (d *Driver) HomeZone() kernel.Zone {
	return d.homeZone
}

// IsEligible reports whether the driver is online, available, active and verified.
func (d *Driver) IsEligible() bool {
	return d.flags.Online && d.flags.Available && d.flags.Active && d.flags.Verified
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

func (d *Driver) setVehicle(v VehicleType) error {
	if err := v.Validate(); err != nil {
		return err
	}
	d.vehicle = v
	return nil
}

func (d *Driver) setStats(s Stats) error {
	var errList []error
	if !inRange(s.Rating, MinRating, MaxRating) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("rating", s.Rating, MinRating, MaxRating))
	}
	for name, rate := range map[string]float64{
		"completion rate": s.CompletionRate,
		"on-time rate":    s.OnTimeRate,
		"acceptance rate": s.AcceptanceRate,
	} {
		if !inRange(rate, MinRate, MaxRate) {
			errList = append(errList, errs.NewValueIsOutOfRangeError(name, rate, MinRate, MaxRate))
		}
	}
	if s.LifetimeDeliveries < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"lifetime deliveries", fmt.Errorf("%d is negative", s.LifetimeDeliveries)))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	d.stats = s
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
