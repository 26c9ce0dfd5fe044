package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// EarthRadiusKm is the sphere radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	// BaseUrbanSpeedKmh is the courier speed assumed by EstimateTravelMinutes
	// before traffic is applied.
	BaseUrbanSpeedKmh = 25.0

	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a zero-value GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable WGS84 coordinate pair. Latitude is kept within
// [-90, 90] and longitude within [-180, 180].
//
// Example:
//
//	pickup, err := kernel.NewGeoPoint(17.40, 78.47)
//	if err != nil {
//	    // out of range
//	}
type GeoPoint struct { //nolint:recvcheck //setters use pointer receivers during construction
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates both coordinates and returns the point.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// MustGeoPoint is NewGeoPoint for literals known to be valid; it panics otherwise.
func MustGeoPoint(lat, lng float64) GeoPoint {
	p, err := NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 {
	return p.lat
}

func (p GeoPoint) Lng() float64 {
	return p.lng
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceKm is the great-circle distance to other on a sphere of EarthRadiusKm.
func (p GeoPoint) DistanceKm(other GeoPoint) float64 {
	return DistanceKm(p.lat, p.lng, other.lat, other.lng)
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lng, MinLongitude, MaxLongitude)
	}
	p.lng = lng
	return nil
}

// DistanceKm returns the haversine distance in kilometres between two
// coordinates given in degrees. It is symmetric and zero for identical points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// rounding can push a marginally above 1 for antipodal points
	a = math.Min(1, a)

	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// EstimateTravelMinutes converts a distance into whole minutes at
// BaseUrbanSpeedKmh / trafficFactor, rounding up. A trafficFactor above 1
// slows travel; non-positive factors are treated as 1.0.
func EstimateTravelMinutes(distanceKm, trafficFactor float64) int {
	if trafficFactor <= 0 || math.IsNaN(trafficFactor) {
		trafficFactor = 1.0
	}
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm * 60 * trafficFactor / BaseUrbanSpeedKmh))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
