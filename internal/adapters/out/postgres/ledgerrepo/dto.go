// Package ledgerrepo stores assignment records in the assignment_records table.
package ledgerrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO is one ledger row. The weights in force at decision time are kept
// next to the scores so a decision can be replayed.
type RecordDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Algorithm      string    `gorm:"type:varchar(32);not null"`
	SearchRadiusKm float64
	CandidateCount int

	DistanceScore    float64
	PerformanceScore float64
	LoadScore        float64
	ZoneScore        float64
	FinalScore       float64

	EstimatedMinutes    int
	EstimatedDistanceKm float64

	Weights WeightsDTO `gorm:"embedded;embeddedPrefix:weight_"`

	CreatedAt time.Time `gorm:"not null"`
}

func (RecordDTO) TableName() string {
	return "assignment_records"
}

type WeightsDTO struct {
	Distance    float64
	Performance float64
	Load        float64
	Zone        float64
}

func fromDomain(r assignment.Record) RecordDTO {
	return RecordDTO{
		ID:                  r.ID.Bytes(),
		OrderID:             r.OrderID.Bytes(),
		DriverID:            r.DriverID.Bytes(),
		Algorithm:           r.Algorithm.String(),
		SearchRadiusKm:      r.SearchRadiusKm,
		CandidateCount:      r.CandidateCount,
		DistanceScore:       r.DistanceScore,
		PerformanceScore:    r.PerformanceScore,
		LoadScore:           r.LoadScore,
		ZoneScore:           r.ZoneScore,
		FinalScore:          r.FinalScore,
		EstimatedMinutes:    r.EstimatedMinutes,
		EstimatedDistanceKm: r.EstimatedDistanceKm,
		Weights: WeightsDTO{
			Distance:    r.Weights.Distance,
			Performance: r.Weights.Performance,
			Load:        r.Weights.Load,
			Zone:        r.Weights.Zone,
		},
		CreatedAt: r.CreatedAt,
	}
}

func toDomain(dto RecordDTO) (assignment.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return assignment.Record{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return assignment.Record{}, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return assignment.Record{}, err
	}
	algorithm, err := assignment.ParseAlgorithm(dto.Algorithm)
	if err != nil {
		return assignment.Record{}, err
	}

	return assignment.Record{
		ID:                  id,
		OrderID:             orderID,
		DriverID:            driverID,
		Algorithm:           algorithm,
		SearchRadiusKm:      dto.SearchRadiusKm,
		CandidateCount:      dto.CandidateCount,
		DistanceScore:       dto.DistanceScore,
		PerformanceScore:    dto.PerformanceScore,
		LoadScore:           dto.LoadScore,
		ZoneScore:           dto.ZoneScore,
		FinalScore:          dto.FinalScore,
		EstimatedMinutes:    dto.EstimatedMinutes,
		EstimatedDistanceKm: dto.EstimatedDistanceKm,
		Weights: assignment.Weights{
			Distance:    dto.Weights.Distance,
			Performance: dto.Weights.Performance,
			Load:        dto.Weights.Load,
			Zone:        dto.Weights.Zone,
		},
		CreatedAt: dto.CreatedAt.UTC(),
	}, nil
}
