package services

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

const (
	DefaultBaseFare  = 20
	DefaultPerKmRate = 8.0
	DefaultPerMinute = 1.0
)

// Fare is a quote broken into components, in whole currency units.
type Fare struct {
	Base     int
	Distance int
	Time     int
	Surge    int
	Total    int
}

// FareCalculator quotes delivery fares as base + ceil(km*perKm) + ceil(min*perMinute),
// plus a surge component of ceil(subtotal*(multiplier-1)).
type FareCalculator struct {
	baseFare  int
	perKm     float64
	perMinute float64
}

func NewFareCalculator(baseFare int, perKm, perMinute float64) FareCalculator {
	return FareCalculator{baseFare: baseFare, perKm: perKm, perMinute: perMinute}
}

// DefaultFareCalculator charges 20 base, 8 per km and 1 per minute.
func DefaultFareCalculator() FareCalculator {
	return NewFareCalculator(DefaultBaseFare, DefaultPerKmRate, DefaultPerMinute)
}

// Quote prices a trip. surgeMultiplier must be at least 1; 1 means no surge.
func (f FareCalculator) Quote(distanceKm float64, minutes int, surgeMultiplier float64) (Fare, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return Fare{}, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v is negative", distanceKm))
	}
	if minutes < 0 {
		return Fare{}, errs.NewValueIsInvalidErrorWithCause("minutes", fmt.Errorf("%d is negative", minutes))
	}
	if surgeMultiplier < 1 || math.IsNaN(surgeMultiplier) || math.IsInf(surgeMultiplier, 0) {
		return Fare{}, errs.NewValueIsOutOfRangeError("surge multiplier", surgeMultiplier, 1, math.Inf(1))
	}

	fare := Fare{
		Base:     f.baseFare,
		Distance: int(math.Ceil(distanceKm * f.perKm)),
		Time:     int(math.Ceil(float64(minutes) * f.perMinute)),
	}
	subtotal := fare.Base + fare.Distance + fare.Time
	if surgeMultiplier > 1 {
		fare.Surge = int(math.Ceil(float64(subtotal) * (surgeMultiplier - 1)))
	}
	fare.Total = subtotal + fare.Surge
	return fare, nil
}
