package deliveryrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryStore and
// ports.PendingOrderSource using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

var (
	_ ports.DeliveryStore      = (*GormDeliveryRepository)(nil)
	_ ports.PendingOrderSource = (*GormDeliveryRepository)(nil)
	_ ports.OrderIntake        = (*GormDeliveryRepository)(nil)
)

func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add stores a new order in status, optionally already held by driverID.
func (r *GormDeliveryRepository) Add(ctx context.Context, o *order.Order, status order.Status, driverID *kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	dto := fromDomain(o, status, driverID)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// AddPending stores a new order waiting for a driver.
func (r *GormDeliveryRepository) AddPending(ctx context.Context, o *order.Order) error {
	return r.Add(ctx, o, order.StatusPending, nil)
}

// Status returns the delivery status and driver of orderID.
func (r *GormDeliveryRepository) Status(ctx context.Context, orderID kernel.UUID) (order.Status, *kernel.UUID, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).Select("id", "status", "driver_id").
		First(&dto, "id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.StatusUnknown, nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return order.StatusUnknown, nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.StatusUnknown, nil, err
	}
	if dto.DriverID == nil {
		return status, nil, nil
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return order.StatusUnknown, nil, err
	}
	return status, &driverID, nil
}

func (r *GormDeliveryRepository) CountActiveDeliveries(ctx context.Context, driverID kernel.UUID) (int, error) {
	active := make([]string, 0, len(order.ActiveStatuses()))
	for _, s := range order.ActiveStatuses() {
		active = append(active, s.String())
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), active).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// AssignDriver moves a pending order to assigned. The status guard is part of
// the UPDATE so two transactions can never both assign the same order.
func (r *GormDeliveryRepository) AssignDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", orderID.Bytes(), order.StatusPending.String()).
		Updates(map[string]any{
			"status":    order.StatusAssigned.String(),
			"driver_id": driverID.Bytes(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	status, _, err := r.Status(ctx, orderID)
	if err != nil {
		return err
	}
	if err = status.ValidateAssign(); err != nil {
		return fmt.Errorf("assign order %s: %w", orderID, err)
	}
	return fmt.Errorf("assign order %s: no row updated", orderID)
}

// ListPending returns pending orders, oldest first. limit <= 0 means no limit.
func (r *GormDeliveryRepository) ListPending(ctx context.Context, limit int) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", order.StatusPending.String()).
		Order("created_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
