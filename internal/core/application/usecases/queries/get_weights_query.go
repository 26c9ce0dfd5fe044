package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetWeightsQueryIsNotConstructed = errors.New(
		"GetWeightsQuery must be created via NewGetWeightsQuery constructor",
	)
)

// GetWeightsQuery reads the scoring weights currently used by the engine.
type GetWeightsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetWeightsQuery() GetWeightsQuery {
	return GetWeightsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetWeightsQuery) Validate() error {
	return q.guard.Validate(ErrGetWeightsQueryIsNotConstructed)
}

type GetWeightsQueryHandler struct {
	registry *assignment.WeightRegistry
}

func NewGetWeightsQueryHandler(registry *assignment.WeightRegistry) GetWeightsQueryHandler {
	return GetWeightsQueryHandler{registry: registry}
}

func (h GetWeightsQueryHandler) Handle(_ context.Context, query GetWeightsQuery) (assignment.Weights, error) {
	if err := query.Validate(); err != nil {
		return assignment.Weights{}, err
	}
	return h.registry.Get(), nil
}
