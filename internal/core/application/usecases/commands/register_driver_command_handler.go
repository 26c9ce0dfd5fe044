package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// RegisterDriverCommandHandler writes driver records into the directory.
type RegisterDriverCommandHandler struct {
	registry ports.DriverRegistry
	zones    ports.ZoneResolver
	logger   *slog.Logger
}

// NewRegisterDriverCommandHandler builds the handler. zones may be nil, in
// which case positioned drivers are stored with an unknown current zone.
func NewRegisterDriverCommandHandler(
	registry ports.DriverRegistry,
	zones ports.ZoneResolver,
	logger *slog.Logger,
) RegisterDriverCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return RegisterDriverCommandHandler{
		registry: registry,
		zones:    zones,
		logger:   logger.With("component", "RegisterDriverCommandHandler"),
	}
}

func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) (*courier.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	profile := cmd.Profile()
	d, err := courier.NewDriver(profile.ID, profile.Name, cmd.Vehicle(), profile.Stats, profile.Flags,
		kernel.NewZone(profile.HomeZone))
	if err != nil {
		return nil, err
	}

	if position, ok := cmd.Position(); ok {
		zone := kernel.UnknownZone
		if h.zones != nil {
			resolved, zoneErr := h.zones.Resolve(ctx, position)
			if zoneErr != nil {
				h.logger.Warn("zone lookup failed, storing unknown zone", "driver_id", profile.ID, "error", zoneErr)
			} else {
				zone = resolved
			}
		}
		if err = d.Locate(position, zone); err != nil {
			return nil, err
		}
	}

	if err = h.registry.SaveDriver(ctx, d); err != nil {
		return nil, err
	}

	h.logger.Info("driver registered", "driver_id", d.ID(), "zone", d.CurrentZone())
	return d, nil
}
