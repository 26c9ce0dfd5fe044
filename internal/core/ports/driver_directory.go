// Package ports declares the collaborators the assignment engine depends on
// but does not implement: the driver directory, the order/delivery store, the
// assignment ledger, zone resolution, driver reservation and outcome
// observation. Adapters under internal/adapters implement them.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
)

// DriverDirectory supplies driver records for candidate selection.
type DriverDirectory interface {
	// ListEligibleDrivers returns drivers that are online, available, active
	// and verified. Drivers without a known position may be included; the
	// candidate provider drops them.
	ListEligibleDrivers(ctx context.Context) ([]*courier.Driver, error)
}

// DriverRegistry creates or replaces driver records, including their last
// known position.
type DriverRegistry interface {
	SaveDriver(ctx context.Context, d *courier.Driver) error
}
