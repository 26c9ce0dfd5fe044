// Package candidates builds the list of couriers eligible for one order.
package candidates

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSearchRadiusKm bounds the straight-line distance from pickup.
	DefaultSearchRadiusKm = 10.0

	// DefaultLookupConcurrency caps parallel active-delivery lookups.
	DefaultLookupConcurrency = 8
)

// Provider retrieves eligible drivers from the directory, keeps those with a
// known position inside the search radius and attaches their current load.
type Provider struct {
	directory         ports.DriverDirectory
	deliveries        ports.DeliveryStore
	lookupConcurrency int
}

// NewProvider wires the provider. lookupConcurrency <= 0 uses DefaultLookupConcurrency.
func NewProvider(directory ports.DriverDirectory, deliveries ports.DeliveryStore, lookupConcurrency int) *Provider {
	if lookupConcurrency <= 0 {
		lookupConcurrency = DefaultLookupConcurrency
	}
	return &Provider{
		directory:         directory,
		deliveries:        deliveries,
		lookupConcurrency: lookupConcurrency,
	}
}

// Candidates returns the drivers eligible for a pickup at pickup, in directory
// order. radiusKm <= 0 uses DefaultSearchRadiusKm. No matching driver yields an
// empty slice and a nil error.
func (p *Provider) Candidates(ctx context.Context, pickup kernel.GeoPoint, radiusKm float64) ([]*courier.Candidate, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultSearchRadiusKm
	}

	drivers, err := p.directory.ListEligibleDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list eligible drivers: %w", err)
	}

	type inRange struct {
		driver     *courier.Driver
		distanceKm float64
	}
	nearby := make([]inRange, 0, len(drivers))
	for _, d := range drivers {
		if d.Validate() != nil || !d.IsEligible() {
			continue
		}
		position, ok := d.Position()
		if !ok {
			continue
		}
		distance := position.DistanceKm(pickup)
		if distance > radiusKm {
			continue
		}
		nearby = append(nearby, inRange{driver: d, distanceKm: distance})
	}

	if len(nearby) == 0 {
		return []*courier.Candidate{}, nil
	}

	loads := make([]int, len(nearby))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.lookupConcurrency)
	for i, n := range nearby {
		g.Go(func() error {
			count, countErr := p.deliveries.CountActiveDeliveries(gctx, n.driver.ID())
			if countErr != nil {
				return fmt.Errorf("count active deliveries for driver %s: %w", n.driver.ID(), countErr)
			}
			loads[i] = count
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*courier.Candidate, 0, len(nearby))
	for i, n := range nearby {
		c, candidateErr := courier.NewCandidate(n.driver, n.distanceKm, loads[i])
		if candidateErr != nil {
			return nil, candidateErr
		}
		result = append(result, c)
	}

	return result, nil
}
