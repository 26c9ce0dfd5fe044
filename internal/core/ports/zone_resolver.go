package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// ZoneResolver maps a coordinate to the zone that contains it. Points outside
// every known zone resolve to kernel.UnknownZone without error.
type ZoneResolver interface {
	Resolve(ctx context.Context, point kernel.GeoPoint) (kernel.Zone, error)
}
