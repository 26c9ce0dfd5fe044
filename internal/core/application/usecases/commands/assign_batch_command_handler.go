package commands

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"

	"golang.org/x/time/rate"
)

// DefaultBatchPause is the gap kept between the end of one assignment of a
// batch and the start of the next.
const DefaultBatchPause = 100 * time.Millisecond

// BatchResults maps an order id (string form) to its assignment outcome.
type BatchResults map[string]assignment.Result

// AssignBatchCommandHandler assigns a batch of orders one at a time with
// smart_routing, urgent orders first. A failure of one order never stops the
// batch. When ctx ends, the orders not yet processed are reported as failures
// carrying the context error.
//
// Example:
//
//	handler := NewAssignBatchCommandHandler(assigner, 100*time.Millisecond, logger)
//	cmd, _ := NewAssignBatchCommand(orders)
//	results, err := handler.Handle(ctx, cmd)
type AssignBatchCommandHandler struct {
	assigner OrderAssigner
	pause    time.Duration
	logger   *slog.Logger
}

// NewAssignBatchCommandHandler creates the handler. pause == 0 disables the
// gap between assignments; a negative pause uses DefaultBatchPause.
func NewAssignBatchCommandHandler(assigner OrderAssigner, pause time.Duration, logger *slog.Logger) AssignBatchCommandHandler {
	if pause < 0 {
		pause = DefaultBatchPause
	}
	if logger == nil {
		logger = slog.Default()
	}
	return AssignBatchCommandHandler{
		assigner: assigner,
		pause:    pause,
		logger:   logger.With("component", "AssignBatchCommandHandler"),
	}
}

// Handle returns one Result per order. The only error is an unconstructed command.
func (h AssignBatchCommandHandler) Handle(ctx context.Context, command AssignBatchCommand) (BatchResults, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	queue := PrioritizeOrders(command.Orders())
	results := make(BatchResults, len(queue))

	var finished time.Time
	succeeded := 0
	for i, o := range queue {
		if i > 0 {
			if err := h.pauseAfter(ctx, finished); err != nil {
				h.cancelRemaining(results, queue[i:], err)
				break
			}
		}
		if err := context.Cause(ctx); err != nil {
			h.cancelRemaining(results, queue[i:], err)
			break
		}

		cmd, err := NewAssignOrderCommand(o, string(assignment.SmartRouting))
		if err != nil {
			results[o.ID().String()] = assignment.Failed(o.ID(), assignment.SmartRouting,
				fmt.Sprintf("%s: %v", assignment.ReasonInvalidOrder, err), 0)
			finished = time.Now()
			continue
		}

		res := h.assigner.Handle(ctx, cmd)
		finished = time.Now()
		results[o.ID().String()] = res
		if res.Success {
			succeeded++
		}
	}

	h.logger.Info("batch assigned", "orders", len(queue), "succeeded", succeeded)
	return results, nil
}

// pauseAfter blocks until h.pause has elapsed since finished, the moment the
// previous assignment returned, so the next one reads the committed load.
func (h AssignBatchCommandHandler) pauseAfter(ctx context.Context, finished time.Time) error {
	if h.pause <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(h.pause), 1)
	limiter.AllowN(finished, 1)
	return limiter.Wait(ctx)
}

func (h AssignBatchCommandHandler) cancelRemaining(results BatchResults, remaining []*order.Order, cause error) {
	reason := fmt.Sprintf("%s: %v", assignment.ReasonAssignmentCanceled, cause)
	for _, o := range remaining {
		results[o.ID().String()] = assignment.Failed(o.ID(), assignment.SmartRouting, reason, 0)
	}
	h.logger.Warn("batch interrupted", "remaining", len(remaining), "error", cause)
}

// PrioritizeOrders returns orders sorted urgent, high, normal. The sort is
// stable, so orders of equal priority keep their relative position.
func PrioritizeOrders(orders []*order.Order) []*order.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b *order.Order) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
	return sorted
}
