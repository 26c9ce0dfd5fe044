// Package deliveryrepo is the Postgres order store: it holds orders with their
// delivery status and assigned driver, and answers driver workload queries.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is one row of the orders table.
type OrderDTO struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	DriverID    *uuid.UUID  `gorm:"type:uuid;index:idx_orders_driver_status"`
	Status      string      `gorm:"type:varchar(16);not null;index:idx_orders_driver_status;index"`
	Pickup      PositionDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff     PositionDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	PrepMinutes int
	Value       float64 `gorm:"type:numeric(12,2)"`
	Priority    string  `gorm:"type:varchar(8);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

type PositionDTO struct {
	Lat float64
	Lng float64
}

func fromDomain(o *order.Order, status order.Status, driverID *kernel.UUID) OrderDTO {
	var driver *uuid.UUID
	if driverID != nil {
		raw := driverID.Bytes()
		driver = &raw
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		DriverID:    driver,
		Status:      status.String(),
		Pickup:      PositionDTO{Lat: o.Pickup().Lat(), Lng: o.Pickup().Lng()},
		Dropoff:     PositionDTO{Lat: o.Dropoff().Lat(), Lng: o.Dropoff().Lng()},
		PrepMinutes: o.PrepMinutes(),
		Value:       o.Value(),
		Priority:    o.Priority().String(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Lat, dto.Dropoff.Lng)
	if err != nil {
		return nil, err
	}
	priority, err := order.ParsePriority(dto.Priority)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(id, pickup, dropoff, dto.PrepMinutes, dto.Value, priority)
}
