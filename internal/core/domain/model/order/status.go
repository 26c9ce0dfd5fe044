package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the delivery lifecycle state of an order as tracked by the order
// store.
//
//	Pending ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusAssigned
	StatusPickedUp
	StatusInTransit
	StatusDelivered
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown has no textual form
	return map[Status]string{
		StatusPending:   "pending",
		StatusAssigned:  "assigned",
		StatusPickedUp:  "picked_up",
		StatusInTransit: "in_transit",
		StatusDelivered: "delivered",
		StatusCancelled: "cancelled",
	}
}

// ActiveStatuses are the statuses that count towards a driver's current load.
func ActiveStatuses() []Status {
	return []Status{StatusAssigned, StatusPickedUp, StatusInTransit}
}

// IsActive reports whether a delivery in this status occupies its driver.
func (s Status) IsActive() bool {
	return s == StatusAssigned || s == StatusPickedUp || s == StatusInTransit
}

// ParseStatus maps the lower-case status name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateAssign reports whether an order in this status may receive a driver.
// Only pending orders are assignable; reassignment goes through cancellation.
func (s Status) ValidateAssign() error {
	if s != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s),
		)
	}
	return nil
}
