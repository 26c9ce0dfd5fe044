package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverWorkloadQueryHandler reads drivers joined with their active
// deliveries.
//
// Example:
//
//	handler := NewGetDriverWorkloadQueryHandler(db)
//	drivers, err := handler.Handle(ctx, NewGetDriverWorkloadQuery(true))
//	if err != nil {
//	    return err
//	}
//	for _, d := range drivers {
//	    fmt.Printf("%s carries %d orders\n", d.Name, d.ActiveDeliveries)
//	}
type GetDriverWorkloadQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverWorkloadQueryHandler(db *gorm.DB) GetDriverWorkloadQueryHandler {
	return GetDriverWorkloadQueryHandler{db: db}
}

// Handle returns drivers sorted by name, then id.
func (h GetDriverWorkloadQueryHandler) Handle(
	ctx context.Context,
	query GetDriverWorkloadQuery,
) ([]GetDriverWorkloadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers := make([]GetDriverWorkloadQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.name,
			d.vehicle,
			d.online,
			d.available,
			d.latitude,
			d.longitude,
			d.current_zone,
			COUNT(o.id) AS active_deliveries
		FROM drivers d
		LEFT JOIN orders o
			ON o.driver_id = d.id AND o.status IN ?
		WHERE (? = FALSE OR d.online = TRUE)
		GROUP BY d.id
		ORDER BY d.name, d.id
	`, activeStatusNames(), query.OnlineOnly()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var driver GetDriverWorkloadQueryResponse
		var id uuid.UUID
		var lat, lng sql.NullFloat64
		var zone string

		err = rows.Scan(
			&id,
			&driver.Name,
			&driver.Vehicle,
			&driver.Online,
			&driver.Available,
			&lat,
			&lng,
			&zone,
			&driver.ActiveDeliveries,
		)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		driver.ID = driverID
		driver.CurrentZone = kernel.NewZone(zone)

		if lat.Valid && lng.Valid {
			position, posErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
			if posErr != nil {
				return nil, posErr
			}
			driver.Position = &position
		}
		drivers = append(drivers, driver)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

func activeStatusNames() []string {
	statuses := order.ActiveStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
