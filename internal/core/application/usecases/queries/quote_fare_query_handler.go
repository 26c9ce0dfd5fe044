package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// QuoteFareQueryHandler estimates distance and travel time along the great
// circle and prices them with the configured calculator.
type QuoteFareQueryHandler struct {
	calculator    services.FareCalculator
	trafficFactor float64
}

func NewQuoteFareQueryHandler(calculator services.FareCalculator, trafficFactor float64) QuoteFareQueryHandler {
	return QuoteFareQueryHandler{calculator: calculator, trafficFactor: trafficFactor}
}

func (h QuoteFareQueryHandler) Handle(_ context.Context, query QuoteFareQuery) (QuoteFareQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return QuoteFareQueryResponse{}, err
	}

	km := query.Pickup().DistanceKm(query.Dropoff())
	minutes := kernel.EstimateTravelMinutes(km, h.trafficFactor)

	fare, err := h.calculator.Quote(km, minutes, query.Surge())
	if err != nil {
		return QuoteFareQueryResponse{}, err
	}

	return QuoteFareQueryResponse{
		DistanceKm:       km,
		EstimatedMinutes: minutes,
		Base:             fare.Base,
		Distance:         fare.Distance,
		Time:             fare.Time,
		Surge:            fare.Surge,
		Total:            fare.Total,
	}, nil
}
