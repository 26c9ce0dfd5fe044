package services

import (
	"math"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

const (
	// DistanceDecayKm is the e-folding distance of DistanceScore.
	DistanceDecayKm = 5.0
	// LoadDecay is the e-folding active-delivery count of LoadScore.
	LoadDecay = 2.0

	ratingShare     = 0.4
	completionShare = 0.3
	onTimeShare     = 0.3

	ZoneScoreCurrent = 1.0
	ZoneScoreHome    = 0.8
	ZoneScoreOther   = 0.5
)

// DistanceScore is exp(-km/5): 1 at the pickup, about 0.5 at 5 km and 0.1 at
// 11.5 km. Strictly decreasing in distance.
func DistanceScore(distanceKm float64) float64 {
	return clamp01(math.Exp(-math.Max(0, distanceKm) / DistanceDecayKm))
}

// PerformanceScore blends rating/5 (0.4), completion rate (0.3) and on-time
// rate (0.3). Acceptance rate and lifetime deliveries do not contribute.
func PerformanceScore(stats courier.Stats) float64 {
	rating := clamp01(stats.Rating / courier.MaxRating)
	completion := clamp01(stats.CompletionRate / courier.MaxRate)
	onTime := clamp01(stats.OnTimeRate / courier.MaxRate)
	return clamp01(ratingShare*rating + completionShare*completion + onTimeShare*onTime)
}

// LoadScore is exp(-active/2): 1 when idle, about 0.5 at 2 active deliveries.
func LoadScore(activeDeliveries int) float64 {
	return clamp01(math.Exp(-math.Max(0, float64(activeDeliveries)) / LoadDecay))
}

// ZoneScore rewards a driver already in the order's zone (1.0) or whose home
// zone it is (0.8). Everyone else, including when the order zone is unknown,
// gets a neutral 0.5.
func ZoneScore(orderZone, currentZone, homeZone kernel.Zone) float64 {
	if !orderZone.IsKnown() {
		return ZoneScoreOther
	}
	if currentZone == orderZone {
		return ZoneScoreCurrent
	}
	if homeZone == orderZone {
		return ZoneScoreHome
	}
	return ZoneScoreOther
}

// Scorer turns candidates into Scores.
type Scorer struct {
	trafficFactor float64
}

// NewScorer uses trafficFactor for travel-time estimates; values <= 0 mean 1.0.
func NewScorer(trafficFactor float64) Scorer {
	if trafficFactor <= 0 || math.IsNaN(trafficFactor) {
		trafficFactor = 1.0
	}
	return Scorer{trafficFactor: trafficFactor}
}

// Score evaluates one candidate. FinalScore is the convex combination of the
// component scores under w.
func (s Scorer) Score(c *courier.Candidate, orderZone kernel.Zone, w assignment.Weights) assignment.Score {
	traffic := s.trafficFactor
	if traffic == 0 { // zero-value Scorer
		traffic = 1.0
	}

	score := assignment.Score{
		DriverID:            c.DriverID(),
		DriverName:          c.Driver().Name(),
		DistanceScore:       DistanceScore(c.DistanceKm()),
		PerformanceScore:    PerformanceScore(c.Stats()),
		LoadScore:           LoadScore(c.ActiveDeliveries()),
		ZoneScore:           ZoneScore(orderZone, c.CurrentZone(), c.HomeZone()),
		EstimatedMinutes:    kernel.EstimateTravelMinutes(c.DistanceKm(), traffic),
		EstimatedDistanceKm: c.DistanceKm(),
		ActiveDeliveries:    c.ActiveDeliveries(),
	}
	score.FinalScore = clamp01(
		w.Distance*score.DistanceScore +
			w.Performance*score.PerformanceScore +
			w.Load*score.LoadScore +
			w.Zone*score.ZoneScore,
	)
	return score
}

// ScoreAll scores every candidate, preserving input order.
func (s Scorer) ScoreAll(candidates []*courier.Candidate, orderZone kernel.Zone, w assignment.Weights) []assignment.Score {
	scores := make([]assignment.Score, 0, len(candidates))
	for _, c := range candidates {
		scores = append(scores, s.Score(c, orderZone, w))
	}
	return scores
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
