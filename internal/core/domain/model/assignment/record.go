package assignment

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Record is the audit ledger entry written for every successful assignment.
type Record struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	DriverID       kernel.UUID
	Algorithm      Algorithm
	SearchRadiusKm float64
	CandidateCount int

	DistanceScore    float64
	PerformanceScore float64
	LoadScore        float64
	ZoneScore        float64
	FinalScore       float64

	EstimatedMinutes    int
	EstimatedDistanceKm float64
	Weights             Weights
	CreatedAt           time.Time
}

// NewRecord captures the winning score of an assignment.
func NewRecord(
	orderID kernel.UUID,
	algorithm Algorithm,
	winner Score,
	radiusKm float64,
	candidates int,
	weights Weights,
	at time.Time,
) Record {
	return Record{
		ID:                  kernel.NewUUID(),
		OrderID:             orderID,
		DriverID:            winner.DriverID,
		Algorithm:           algorithm,
		SearchRadiusKm:      radiusKm,
		CandidateCount:      candidates,
		DistanceScore:       winner.DistanceScore,
		PerformanceScore:    winner.PerformanceScore,
		LoadScore:           winner.LoadScore,
		ZoneScore:           winner.ZoneScore,
		FinalScore:          winner.FinalScore,
		EstimatedMinutes:    winner.EstimatedMinutes,
		EstimatedDistanceKm: winner.EstimatedDistanceKm,
		Weights:             weights,
		CreatedAt:           at.UTC(),
	}
}
