package ledgerrepo

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormLedgerRepository implements ports.AssignmentLedger using GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

var _ ports.AssignmentLedger = (*GormLedgerRepository)(nil)

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) Record(ctx context.Context, record assignment.Record) error {
	if err := record.ID.Validate(); err != nil {
		return err
	}
	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormLedgerRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]assignment.Record, error) {
	var dtos []RecordDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]assignment.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		records = append(records, rec)
	}
	return records, nil
}
