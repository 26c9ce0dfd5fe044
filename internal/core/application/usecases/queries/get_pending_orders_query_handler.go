package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle returns at most query.Limit() pending orders by creation time.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			pickup_lat,
			pickup_lng,
			dropoff_lat,
			dropoff_lng,
			priority,
			created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
		LIMIT ?
	`, order.StatusPending.String(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingOrdersQueryResponse
		var id uuid.UUID
		var pickupLat, pickupLng, dropoffLat, dropoffLng float64
		var priority string
		var createdAt time.Time

		err = rows.Scan(&id, &pickupLat, &pickupLng, &dropoffLat, &dropoffLng, &priority, &createdAt)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		if resp.Pickup, err = kernel.NewGeoPoint(pickupLat, pickupLng); err != nil {
			return nil, err
		}
		if resp.Dropoff, err = kernel.NewGeoPoint(dropoffLat, dropoffLng); err != nil {
			return nil, err
		}
		if resp.Priority, err = order.ParsePriority(priority); err != nil {
			return nil, err
		}
		resp.CreatedAt = createdAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
