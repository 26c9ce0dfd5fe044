// Package commands contains the operations that change dispatcher state:
// order and driver intake, single and batch assignment, weight tuning.
// Every command is built through its constructor and validated by its handler.
package commands

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

type (
	// CandidateSource yields the drivers that may take an order picked up at pickup.
	CandidateSource interface {
		Candidates(ctx context.Context, pickup kernel.GeoPoint, radiusKm float64) ([]*courier.Candidate, error)
	}

	// OrderAssigner assigns a single order. AssignOrderCommandHandler implements it.
	OrderAssigner interface {
		Handle(ctx context.Context, command AssignOrderCommand) assignment.Result
	}
)
