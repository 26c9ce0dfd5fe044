package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/candidates"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

const (
	DefaultMaxActiveDeliveries = 3
	DefaultReservationWait     = 2 * time.Second
)

// AssignmentPolicy holds the tunables of one engine instance.
type AssignmentPolicy struct {
	// SearchRadiusKm is passed to the candidate source and kept on ledger
	// records. <= 0 means candidates.DefaultSearchRadiusKm.
	SearchRadiusKm float64
	// MaxActiveDeliveries is the load at which a driver stops receiving orders.
	MaxActiveDeliveries int
	// ReservationWait bounds how long the engine waits for a driver held by
	// another assignment before moving on to the next candidate.
	ReservationWait time.Duration
}

func (p AssignmentPolicy) withDefaults() AssignmentPolicy {
	if p.SearchRadiusKm <= 0 {
		p.SearchRadiusKm = candidates.DefaultSearchRadiusKm
	}
	if p.MaxActiveDeliveries <= 0 {
		p.MaxActiveDeliveries = DefaultMaxActiveDeliveries
	}
	if p.ReservationWait <= 0 {
		p.ReservationWait = DefaultReservationWait
	}
	return p
}

// AssignOrderDependencies are the collaborators of AssignOrderCommandHandler.
// Observer, Logger and Now are optional.
type AssignOrderDependencies struct {
	Candidates CandidateSource
	Zones      ports.ZoneResolver
	Weights    *assignment.WeightRegistry
	Scorer     services.Scorer
	UoWFactory ports.UnitOfWorkFactory
	Reserver   ports.DriverReserver
	Observer   ports.AssignmentObserver
	Logger     *slog.Logger
	Now        func() time.Time
}

// AssignOrderCommandHandler is the assignment engine. It scores every
// candidate, ranks them by the requested algorithm and commits the best driver
// that still has capacity.
//
// Each commit runs under a reservation of the driver: the active-delivery
// count is read again while the reservation is held, and the order status
// change and the ledger record are written in a single unit of work before the
// reservation is released. Concurrent assignments therefore never push a
// driver past AssignmentPolicy.MaxActiveDeliveries.
//
// Example:
//
//	handler := NewAssignOrderCommandHandler(deps, AssignmentPolicy{SearchRadiusKm: 10})
//	cmd, _ := NewAssignOrderCommand(o, "smart_routing")
//	result := handler.Handle(ctx, cmd)
//	if !result.Success {
//	    log.Printf("order %s unassigned: %s", result.OrderID, result.Reason)
//	}
type AssignOrderCommandHandler struct {
	deps   AssignOrderDependencies
	policy AssignmentPolicy
	logger *slog.Logger
}

func NewAssignOrderCommandHandler(deps AssignOrderDependencies, policy AssignmentPolicy) AssignOrderCommandHandler {
	if deps.Observer == nil {
		deps.Observer = ports.NopObserver{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Weights == nil {
		deps.Weights = assignment.NewWeightRegistry(assignment.DefaultWeights())
	}

	return AssignOrderCommandHandler{
		deps:   deps,
		policy: policy.withDefaults(),
		logger: deps.Logger.With("component", "AssignOrderCommandHandler"),
	}
}

// Handle never returns an error: every failure, including collaborator
// errors and panics, is reported as an unsuccessful Result.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) (result assignment.Result) {
	started := time.Now()
	algorithm := h.resolveAlgorithm(command.Algorithm())

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("assignment panicked", "order_id", result.OrderID, "panic", r)
			result = assignment.Failed(result.OrderID, algorithm, fmt.Sprintf("internal error: %v", r), result.CandidateCount)
		}
		result.Duration = time.Since(started)
		h.deps.Observer.ObserveAssignment(result, result.Duration)
	}()

	if err := command.Validate(); err != nil {
		return assignment.Failed(kernel.UUID{}, algorithm, fmt.Sprintf("%s: %v", assignment.ReasonInvalidOrder, err), 0)
	}
	o := command.Order()
	result.OrderID = o.ID()

	zone := h.resolveZone(ctx, o)

	pool, err := h.deps.Candidates.Candidates(ctx, o.Pickup(), h.policy.SearchRadiusKm)
	if err != nil {
		h.logger.Error("candidate lookup failed", "order_id", o.ID(), "error", err)
		return assignment.Failed(o.ID(), algorithm, err.Error(), 0)
	}
	if len(pool) == 0 {
		return assignment.Failed(o.ID(), algorithm, assignment.ReasonNoDriversInRange, 0)
	}

	weights := h.deps.Weights.Get()
	ranked := services.Rank(h.deps.Scorer.ScoreAll(pool, zone, weights), algorithm.Effective())

	for i, winner := range ranked {
		recordID, assigned, commitErr := h.commit(ctx, o, algorithm, winner, len(pool), weights)
		if commitErr != nil {
			h.logger.Error("assignment commit failed",
				"order_id", o.ID(), "driver_id", winner.DriverID, "error", commitErr)
			reason := commitErr.Error()
			if ctx.Err() != nil {
				reason = fmt.Sprintf("%s: %v", assignment.ReasonAssignmentCanceled, ctx.Err())
			}
			return assignment.Failed(o.ID(), algorithm, reason, len(pool))
		}
		if !assigned {
			continue
		}

		alternates := make([]assignment.Score, 0, len(ranked)-1)
		alternates = append(alternates, ranked[:i]...)
		alternates = append(alternates, ranked[i+1:]...)

		res := assignment.Succeeded(o.ID(), algorithm, winner, alternates, len(pool))
		res.RecordID = &recordID
		h.logger.Info("order assigned",
			"order_id", o.ID(),
			"driver_id", winner.DriverID,
			"algorithm", algorithm,
			"final_score", winner.FinalScore,
			"candidates", len(pool),
		)
		return res
	}

	h.logger.Warn("every candidate is at capacity", "order_id", o.ID(), "candidates", len(pool))
	return assignment.Failed(o.ID(), algorithm, assignment.ReasonAllDriversAtLimit, len(pool))
}

// commit assigns o to winner's driver under a reservation. assigned is false
// when the driver is at capacity or held by another assignment for longer than
// the reservation wait.
func (h AssignOrderCommandHandler) commit(
	ctx context.Context,
	o *order.Order,
	algorithm assignment.Algorithm,
	winner assignment.Score,
	candidateCount int,
	weights assignment.Weights,
) (recordID kernel.UUID, assigned bool, err error) {
	reserveCtx, cancel := context.WithTimeout(ctx, h.policy.ReservationWait)
	release, err := h.deps.Reserver.Reserve(reserveCtx, winner.DriverID)
	cancel()
	if errors.Is(err, ports.ErrDriverReserved) && ctx.Err() == nil {
		h.logger.Warn("driver reservation timed out, trying next candidate",
			"order_id", o.ID(), "driver_id", winner.DriverID)
		return kernel.UUID{}, false, nil
	}
	if err != nil {
		return kernel.UUID{}, false, fmt.Errorf("reserve driver %s: %w", winner.DriverID, err)
	}
	defer func() {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			h.logger.Warn("driver reservation release failed", "driver_id", winner.DriverID, "error", releaseErr)
		}
	}()

	uow := h.deps.UoWFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries := uow.DeliveryStore()
	active, err := deliveries.CountActiveDeliveries(ctx, winner.DriverID)
	if err != nil {
		return kernel.UUID{}, false, err
	}
	if active >= h.policy.MaxActiveDeliveries {
		h.logger.Debug("driver at capacity",
			"driver_id", winner.DriverID, "active", active, "max", h.policy.MaxActiveDeliveries)
		return kernel.UUID{}, false, nil
	}

	if err = deliveries.AssignDriver(ctx, o.ID(), winner.DriverID); err != nil {
		return kernel.UUID{}, false, err
	}

	// The ledger keeps the load observed at commit time.
	winner.ActiveDeliveries = active
	record := assignment.NewRecord(o.ID(), algorithm, winner, h.policy.SearchRadiusKm, candidateCount, weights, h.deps.Now())
	if err = uow.AssignmentLedger().Record(ctx, record); err != nil {
		return kernel.UUID{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, false, err
	}

	return record.ID, true, nil
}

func (h AssignOrderCommandHandler) resolveAlgorithm(requested string) assignment.Algorithm {
	algorithm, err := assignment.ParseAlgorithm(requested)
	if err != nil {
		h.logger.Warn("unknown algorithm, using smart_routing", "requested", requested)
		return assignment.SmartRouting
	}
	if algorithm == assignment.MLBased {
		h.logger.Info("ml_based is not implemented yet, ranking with smart_routing")
	}
	return algorithm
}

func (h AssignOrderCommandHandler) resolveZone(ctx context.Context, o *order.Order) kernel.Zone {
	if h.deps.Zones == nil {
		return kernel.UnknownZone
	}
	zone, err := h.deps.Zones.Resolve(ctx, o.Pickup())
	if err != nil {
		h.logger.Warn("zone lookup failed, scoring with unknown zone", "order_id", o.ID(), "error", err)
		return kernel.UnknownZone
	}
	return zone
}
