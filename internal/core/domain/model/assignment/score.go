package assignment

import "dispatch/internal/core/domain/model/kernel"

// Score is the engine's verdict for one (order, driver) pair. Component scores
// and FinalScore are in [0, 1]; higher is better.
type Score struct {
	DriverID         kernel.UUID
	DriverName       string
	DistanceScore    float64
	PerformanceScore float64
	LoadScore        float64
	ZoneScore        float64
	FinalScore       float64

	EstimatedMinutes    int
	EstimatedDistanceKm float64
	ActiveDeliveries    int
}
