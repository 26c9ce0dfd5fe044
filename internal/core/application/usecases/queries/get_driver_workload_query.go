// Package queries holds the read side of the dispatcher: driver workload,
// pending orders, assignment history, current weights and fare quotes.
// Queries that read Postgres go straight to SQL and return flat read models.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetDriverWorkloadQueryIsNotConstructed = errors.New(
		"GetDriverWorkloadQuery must be created via NewGetDriverWorkloadQuery constructor",
	)
)

// GetDriverWorkloadQuery lists every driver with its current number of
// active deliveries.
type GetDriverWorkloadQuery struct {
	onlineOnly bool

	guard guard.ConstructorGuard
}

// NewGetDriverWorkloadQuery builds the query. With onlineOnly set, offline
// drivers are left out.
func NewGetDriverWorkloadQuery(onlineOnly bool) GetDriverWorkloadQuery {
	return GetDriverWorkloadQuery{onlineOnly: onlineOnly, guard: guard.NewConstructorGuard()}
}

func (q GetDriverWorkloadQuery) OnlineOnly() bool {
	return q.onlineOnly
}

func (q GetDriverWorkloadQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverWorkloadQueryIsNotConstructed)
}

// GetDriverWorkloadQueryResponse is one driver row. Position is nil until the
// driver reports a fix.
type GetDriverWorkloadQueryResponse struct {
	ID               kernel.UUID
	Name             string
	Vehicle          string
	Online           bool
	Available        bool
	Position         *kernel.GeoPoint
	CurrentZone      kernel.Zone
	ActiveDeliveries int
}
