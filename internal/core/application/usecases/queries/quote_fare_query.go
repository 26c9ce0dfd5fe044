package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrQuoteFareQueryIsNotConstructed = errors.New(
		"QuoteFareQuery must be created via NewQuoteFareQuery constructor",
	)
)

// QuoteFareQuery prices a trip between two points.
type QuoteFareQuery struct {
	pickup  kernel.GeoPoint
	dropoff kernel.GeoPoint
	surge   float64

	guard guard.ConstructorGuard
}

// NewQuoteFareQuery builds the query. A zero surge multiplier means no surge.
func NewQuoteFareQuery(pickup, dropoff kernel.GeoPoint, surge float64) (QuoteFareQuery, error) {
	if err := pickup.Validate(); err != nil {
		return QuoteFareQuery{}, errs.NewValueIsRequiredErrorWithCause("pickup", err)
	}
	if err := dropoff.Validate(); err != nil {
		return QuoteFareQuery{}, errs.NewValueIsRequiredErrorWithCause("dropoff", err)
	}
	if surge == 0 {
		surge = 1
	}

	return QuoteFareQuery{
		pickup:  pickup,
		dropoff: dropoff,
		surge:   surge,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q QuoteFareQuery) Pickup() kernel.GeoPoint {
	return q.pickup
}

func (q QuoteFareQuery) Dropoff() kernel.GeoPoint {
	return q.dropoff
}

func (q QuoteFareQuery) Surge() float64 {
	return q.surge
}

func (q QuoteFareQuery) Validate() error {
	return q.guard.Validate(ErrQuoteFareQueryIsNotConstructed)
}

type QuoteFareQueryResponse struct {
	DistanceKm       float64
	EstimatedMinutes int
	Base             int
	Distance         int
	Time             int
	Surge            int
	Total            int
}
