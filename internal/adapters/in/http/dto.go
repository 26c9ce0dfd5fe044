package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) toGeoPoint() (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(l.Lat, l.Lng)
}

func locationOf(p kernel.GeoPoint) Location {
	return Location{Lat: p.Lat(), Lng: p.Lng()}
}

// NewOrder describes an order. An empty ID is replaced by a generated one.
type NewOrder struct {
	ID          string   `json:"id,omitempty"`
	Pickup      Location `json:"pickup"`
	Dropoff     Location `json:"dropoff"`
	PrepMinutes int      `json:"prep_minutes"`
	Value       float64  `json:"value"`
	Priority    string   `json:"priority,omitempty"`
}

type CreatedOrder struct {
	ID string `json:"id"`
}

type NewDriver struct {
	ID                 string    `json:"id,omitempty"`
	Name               string    `json:"name"`
	Vehicle            string    `json:"vehicle"`
	Rating             float64   `json:"rating"`
	CompletionRate     float64   `json:"completion_rate"`
	OnTimeRate         float64   `json:"on_time_rate"`
	AcceptanceRate     float64   `json:"acceptance_rate"`
	LifetimeDeliveries int       `json:"lifetime_deliveries"`
	Online             bool      `json:"online"`
	Available          bool      `json:"available"`
	Active             bool      `json:"active"`
	Verified           bool      `json:"verified"`
	HomeZone           string    `json:"home_zone,omitempty"`
	Location           *Location `json:"location,omitempty"`
}

type Driver struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Vehicle     string    `json:"vehicle"`
	HomeZone    string    `json:"home_zone,omitempty"`
	CurrentZone string    `json:"current_zone,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

func driverOf(d *courier.Driver) Driver {
	resp := Driver{
		ID:          d.ID().String(),
		Name:        d.Name(),
		Vehicle:     d.Vehicle().String(),
		HomeZone:    d.HomeZone().String(),
		CurrentZone: d.CurrentZone().String(),
	}
	if position, ok := d.Position(); ok {
		loc := locationOf(position)
		resp.Location = &loc
	}
	return resp
}

type AssignmentRequest struct {
	Order     NewOrder `json:"order"`
	Algorithm string   `json:"algorithm,omitempty"`
}

type BatchAssignmentRequest struct {
	Orders []NewOrder `json:"orders"`
}

type Score struct {
	DriverID            string  `json:"driver_id"`
	DriverName          string  `json:"driver_name"`
	DistanceScore       float64 `json:"distance_score"`
	PerformanceScore    float64 `json:"performance_score"`
	LoadScore           float64 `json:"load_score"`
	ZoneScore           float64 `json:"zone_score"`
	FinalScore          float64 `json:"final_score"`
	EstimatedMinutes    int     `json:"estimated_minutes"`
	EstimatedDistanceKm float64 `json:"estimated_distance_km"`
	ActiveDeliveries    int     `json:"active_deliveries"`
}

func scoreOf(s assignment.Score) Score {
	return Score{
		DriverID:            s.DriverID.String(),
		DriverName:          s.DriverName,
		DistanceScore:       s.DistanceScore,
		PerformanceScore:    s.PerformanceScore,
		LoadScore:           s.LoadScore,
		ZoneScore:           s.ZoneScore,
		FinalScore:          s.FinalScore,
		EstimatedMinutes:    s.EstimatedMinutes,
		EstimatedDistanceKm: s.EstimatedDistanceKm,
		ActiveDeliveries:    s.ActiveDeliveries,
	}
}

type AssignmentResult struct {
	Success        bool    `json:"success"`
	OrderID        string  `json:"order_id,omitempty"`
	Algorithm      string  `json:"algorithm"`
	DriverID       *string `json:"driver_id,omitempty"`
	Score          *Score  `json:"score,omitempty"`
	Alternates     []Score `json:"alternates"`
	CandidateCount int     `json:"candidate_count"`
	Reason         string  `json:"reason,omitempty"`
	RecordID       *string `json:"record_id,omitempty"`
	DurationMs     float64 `json:"duration_ms"`
}

func resultOf(r assignment.Result) AssignmentResult {
	resp := AssignmentResult{
		Success:        r.Success,
		Algorithm:      r.Algorithm.String(),
		Alternates:     make([]Score, 0, len(r.Alternates)),
		CandidateCount: r.CandidateCount,
		Reason:         r.Reason,
		DurationMs:     float64(r.Duration) / float64(time.Millisecond),
	}
	if r.OrderID.Validate() == nil {
		resp.OrderID = r.OrderID.String()
	}
	if r.DriverID != nil {
		id := r.DriverID.String()
		resp.DriverID = &id
	}
	if r.Score != nil {
		s := scoreOf(*r.Score)
		resp.Score = &s
	}
	if r.RecordID != nil {
		id := r.RecordID.String()
		resp.RecordID = &id
	}
	for _, alt := range r.Alternates {
		resp.Alternates = append(resp.Alternates, scoreOf(alt))
	}
	return resp
}

type Weights struct {
	Distance    float64 `json:"distance"`
	Performance float64 `json:"performance"`
	Load        float64 `json:"load"`
	Zone        float64 `json:"zone"`
}

func weightsOf(w assignment.Weights) Weights {
	return Weights{Distance: w.Distance, Performance: w.Performance, Load: w.Load, Zone: w.Zone}
}

// WeightsPatch changes only the fields that are present.
type WeightsPatch struct {
	Distance    *float64 `json:"distance,omitempty"`
	Performance *float64 `json:"performance,omitempty"`
	Load        *float64 `json:"load,omitempty"`
	Zone        *float64 `json:"zone,omitempty"`
}

type FareQuoteRequest struct {
	Pickup  Location `json:"pickup"`
	Dropoff Location `json:"dropoff"`
	Surge   float64  `json:"surge,omitempty"`
}

type FareQuote struct {
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	Base             int     `json:"base"`
	Distance         int     `json:"distance"`
	Time             int     `json:"time"`
	Surge            int     `json:"surge"`
	Total            int     `json:"total"`
}

type DriverWorkload struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Vehicle          string    `json:"vehicle"`
	Online           bool      `json:"online"`
	Available        bool      `json:"available"`
	Location         *Location `json:"location,omitempty"`
	CurrentZone      string    `json:"current_zone,omitempty"`
	ActiveDeliveries int       `json:"active_deliveries"`
}

func driverWorkloadOf(d queries.GetDriverWorkloadQueryResponse) DriverWorkload {
	resp := DriverWorkload{
		ID:               d.ID.String(),
		Name:             d.Name,
		Vehicle:          d.Vehicle,
		Online:           d.Online,
		Available:        d.Available,
		CurrentZone:      d.CurrentZone.String(),
		ActiveDeliveries: d.ActiveDeliveries,
	}
	if d.Position != nil {
		loc := locationOf(*d.Position)
		resp.Location = &loc
	}
	return resp
}

type PendingOrder struct {
	ID        string    `json:"id"`
	Pickup    Location  `json:"pickup"`
	Dropoff   Location  `json:"dropoff"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type AssignmentHistoryEntry struct {
	RecordID            string    `json:"record_id"`
	DriverID            string    `json:"driver_id"`
	Algorithm           string    `json:"algorithm"`
	CandidateCount      int       `json:"candidate_count"`
	FinalScore          float64   `json:"final_score"`
	EstimatedMinutes    int       `json:"estimated_minutes"`
	EstimatedDistanceKm float64   `json:"estimated_distance_km"`
	CreatedAt           time.Time `json:"created_at"`
}
