package driverrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements ports.DriverDirectory and ports.DriverRegistry using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

var (
	_ ports.DriverDirectory = (*GormDriverRepository)(nil)
	_ ports.DriverRegistry  = (*GormDriverRepository)(nil)
)

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// SaveDriver inserts the driver or overwrites the stored row with the same id.
func (r *GormDriverRepository) SaveDriver(ctx context.Context, d *courier.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driverId", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListEligibleDrivers returns drivers that are online, available, active and
// verified, in registration order.
func (r *GormDriverRepository) ListEligibleDrivers(ctx context.Context) ([]*courier.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("online AND available AND active AND verified").
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	drivers := make([]*courier.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}
