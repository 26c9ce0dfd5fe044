package order

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned for orders not created through NewOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is an order awaiting courier assignment. It is produced by the order
// store and read by the assignment engine; it never changes after creation.
//
// Invariants:
//   - id, pickup and dropoff are constructed values
//   - preparation minutes and value are non-negative
//   - priority is normal, high or urgent
type Order struct {
	id          kernel.UUID
	pickup      kernel.GeoPoint
	dropoff     kernel.GeoPoint
	prepMinutes int
	value       float64
	priority    Priority

	isConstructed bool
}

// NewOrder validates every field and returns the order.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), pickup, dropoff, 15, 420.0, order.PriorityUrgent)
func NewOrder(
	id kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	prepMinutes int,
	value float64,
	priority Priority,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setPickup(pickup),
		o.setDropoff(dropoff),
		o.setPrepMinutes(prepMinutes),
		o.setValue(value),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

// PrepMinutes is the estimated kitchen preparation time.
func (o *Order) PrepMinutes() int {
	return o.prepMinutes
}

func (o *Order) Value() float64 {
	return o.value
}

func (o *Order) Priority() Priority {
	return o.priority
}

// TripKm is the straight-line pickup to dropoff distance.
func (o *Order) TripKm() float64 {
	return o.pickup.DistanceKm(o.dropoff)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPickup(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickup", err)
	}
	o.pickup = p
	return nil
}

func (o *Order) setDropoff(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dropoff", err)
	}
	o.dropoff = p
	return nil
}

func (o *Order) setPrepMinutes(m int) error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("prep minutes", fmt.Errorf("%d is negative", m))
	}
	o.prepMinutes = m
	return nil
}

func (o *Order) setValue(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.NewValueIsInvalidErrorWithCause("value", fmt.Errorf("%v is not a non-negative amount", v))
	}
	o.value = v
	return nil
}

func (o *Order) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}
