package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/assignment"
)

// SetWeightsCommandHandler applies weight updates to the registry shared with
// the assignment engine. Assignments already scoring keep the weights they read.
type SetWeightsCommandHandler struct {
	registry *assignment.WeightRegistry
	logger   *slog.Logger
}

func NewSetWeightsCommandHandler(registry *assignment.WeightRegistry, logger *slog.Logger) SetWeightsCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return SetWeightsCommandHandler{
		registry: registry,
		logger:   logger.With("component", "SetWeightsCommandHandler"),
	}
}

// Handle returns the normalized weights now in effect.
func (h SetWeightsCommandHandler) Handle(_ context.Context, command SetWeightsCommand) (assignment.Weights, error) {
	if err := command.Validate(); err != nil {
		return assignment.Weights{}, err
	}

	weights, err := h.registry.Set(command.Update())
	if err != nil {
		return assignment.Weights{}, err
	}

	h.logger.Info("scoring weights updated",
		"distance", weights.Distance,
		"performance", weights.Performance,
		"load", weights.Load,
		"zone", weights.Zone,
	)
	return weights, nil
}
