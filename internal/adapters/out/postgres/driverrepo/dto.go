// Package driverrepo persists the driver directory in Postgres and maps rows
// to courier.Driver.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is one row of the drivers table. Latitude and longitude are NULL
// until the driver's first position fix.
type DriverDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"not null"`
	Vehicle string    `gorm:"type:varchar(16);not null"`

	Rating             float64
	CompletionRate     float64
	OnTimeRate         float64
	AcceptanceRate     float64
	LifetimeDeliveries int

	Online    bool `gorm:"index:idx_drivers_eligible"`
	Available bool `gorm:"index:idx_drivers_eligible"`
	Active    bool `gorm:"index:idx_drivers_eligible"`
	Verified  bool `gorm:"index:idx_drivers_eligible"`

	Latitude    *float64
	Longitude   *float64
	CurrentZone string `gorm:"type:varchar(64)"`
	HomeZone    string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *courier.Driver) DriverDTO {
	stats, flags := d.Stats(), d.Flags()
	dto := DriverDTO{
		ID:                 d.ID().Bytes(),
		Name:               d.Name(),
		Vehicle:            d.Vehicle().String(),
		Rating:             stats.Rating,
		CompletionRate:     stats.CompletionRate,
		OnTimeRate:         stats.OnTimeRate,
		AcceptanceRate:     stats.AcceptanceRate,
		LifetimeDeliveries: stats.LifetimeDeliveries,
		Online:             flags.Online,
		Available:          flags.Available,
		Active:             flags.Active,
		Verified:           flags.Verified,
		CurrentZone:        d.CurrentZone().String(),
		HomeZone:           d.HomeZone().String(),
	}
	if position, ok := d.Position(); ok {
		lat, lng := position.Lat(), position.Lng()
		dto.Latitude, dto.Longitude = &lat, &lng
	}
	return dto
}

func toDomain(dto DriverDTO) (*courier.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	vehicle, err := courier.ParseVehicleType(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	d, err := courier.NewDriver(id, dto.Name, vehicle,
		courier.Stats{
			Rating:             dto.Rating,
			CompletionRate:     dto.CompletionRate,
			OnTimeRate:         dto.OnTimeRate,
			AcceptanceRate:     dto.AcceptanceRate,
			LifetimeDeliveries: dto.LifetimeDeliveries,
		},
		courier.Flags{Online: dto.Online, Available: dto.Available, Active: dto.Active, Verified: dto.Verified},
		kernel.NewZone(dto.HomeZone),
	)
	if err != nil {
		return nil, err
	}

	if dto.Latitude != nil && dto.Longitude != nil {
		position, posErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if posErr != nil {
			return nil, posErr
		}
		if err = d.Locate(position, kernel.NewZone(dto.CurrentZone)); err != nil {
			return nil, err
		}
	}
	return d, nil
}
