package queries

import (
	"errors"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const DefaultPendingOrdersLimit = 100

var (
	ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
		"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
	)
)

// GetPendingOrdersQuery lists orders still waiting for a driver, oldest first.
type GetPendingOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetPendingOrdersQuery builds the query. A zero limit means DefaultPendingOrdersLimit.
func NewGetPendingOrdersQuery(limit int) (GetPendingOrdersQuery, error) {
	if limit < 0 {
		return GetPendingOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, math.MaxInt)
	}
	if limit == 0 {
		limit = DefaultPendingOrdersLimit
	}
	return GetPendingOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPendingOrdersQuery) Limit() int {
	return q.limit
}

func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

type GetPendingOrdersQueryResponse struct {
	ID        kernel.UUID
	Pickup    kernel.GeoPoint
	Dropoff   kernel.GeoPoint
	Priority  order.Priority
	CreatedAt time.Time
}
