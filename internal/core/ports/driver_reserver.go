package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrDriverReserved is returned by Reserve when the hold could not be acquired
// before the context ended.
var ErrDriverReserved = errors.New("driver is reserved by another assignment")

// Release gives a reservation back. It is safe to call more than once.
type Release func(ctx context.Context) error

// DriverReserver grants exclusive, short-lived holds on drivers so that
// "re-check load, then commit" runs as one unit per driver.
type DriverReserver interface {
	// Reserve blocks until the hold on driverID is acquired or ctx is done,
	// in which case it returns ErrDriverReserved.
	Reserve(ctx context.Context, driverID kernel.UUID) (Release, error)
}
