package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler stores new orders as pending.
type CreateOrderCommandHandler struct {
	intake ports.OrderIntake
	logger *slog.Logger
}

func NewCreateOrderCommandHandler(intake ports.OrderIntake, logger *slog.Logger) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		intake: intake,
		logger: logger.With("component", "CreateOrderCommandHandler"),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o := cmd.Order()
	if err := h.intake.AddPending(ctx, o); err != nil {
		return err
	}

	h.logger.Info("order created", "order_id", o.ID(), "priority", o.Priority())
	return nil
}
