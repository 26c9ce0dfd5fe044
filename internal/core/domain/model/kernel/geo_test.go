package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name      string
		lat, lng  float64
		wantParam string
	}{
		{name: "valid point", lat: 17.40, lng: 78.47},
		{name: "valid bounds", lat: kernel.MaxLatitude, lng: kernel.MinLongitude},
		{name: "latitude too large", lat: 90.0001, lng: 0, wantParam: "latitude"},
		{name: "latitude too small", lat: -91, lng: 0, wantParam: "latitude"},
		{name: "longitude too large", lat: 0, lng: 180.5, wantParam: "longitude"},
		{name: "latitude NaN", lat: math.NaN(), lng: 0, wantParam: "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)

			if tt.wantParam == "" {
				require.NoError(t, err)
				require.NoError(t, p.Validate())
				assert.InDelta(t, tt.lat, p.Lat(), 1e-12)
				assert.InDelta(t, tt.lng, p.Lng(), 1e-12)
				return
			}

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			var rangeErr *errs.ValueIsOutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.wantParam, rangeErr.ParamName)
			assert.Equal(t, kernel.GeoPoint{}, p)
		})
	}
}

func TestGeoPoint_ZeroValueIsInvalid(t *testing.T) {
	var p kernel.GeoPoint

	require.ErrorIs(t, p.Validate(), kernel.ErrGeoPointIsNotConstructed)
}

func TestDistanceKm(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		assert.InDelta(t, 0.0, kernel.DistanceKm(17.40, 78.47, 17.40, 78.47), 1e-12)
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][4]float64{
			{17.40, 78.47, 17.41, 78.48},
			{51.5074, -0.1278, 48.8566, 2.3522},
			{-33.8688, 151.2093, 40.7128, -74.0060},
			{0, 0, 0, 180},
		}
		for _, p := range pairs {
			ab := kernel.DistanceKm(p[0], p[1], p[2], p[3])
			ba := kernel.DistanceKm(p[2], p[3], p[0], p[1])
			assert.InDelta(t, ab, ba, 1e-9)
		}
	})

	t.Run("known distances", func(t *testing.T) {
		// one hundredth of a degree of latitude on a 6371 km sphere
		assert.InDelta(t, 1.11195, kernel.DistanceKm(0, 0, 0.01, 0), 1e-4)
		assert.InDelta(t, 1.5370, kernel.DistanceKm(17.40, 78.47, 17.41, 78.48), 1e-3)
		assert.InDelta(t, 343.5, kernel.DistanceKm(51.5074, -0.1278, 48.8566, 2.3522), 1.0)
		assert.InDelta(t, math.Pi*kernel.EarthRadiusKm, kernel.DistanceKm(0, 0, 0, 180), 1e-6)
	})

	t.Run("method matches function", func(t *testing.T) {
		a := kernel.MustGeoPoint(17.40, 78.47)
		b := kernel.MustGeoPoint(17.41, 78.48)
		assert.InDelta(t, kernel.DistanceKm(17.40, 78.47, 17.41, 78.48), a.DistanceKm(b), 1e-12)
	})
}

func TestEstimateTravelMinutes(t *testing.T) {
	tests := []struct {
		name          string
		distanceKm    float64
		trafficFactor float64
		want          int
	}{
		{name: "zero distance", distanceKm: 0, trafficFactor: 1, want: 0},
		{name: "exact minutes", distanceKm: 5, trafficFactor: 1, want: 12},
		{name: "rounds up", distanceKm: 1.5370, trafficFactor: 1, want: 4},
		{name: "traffic slows travel", distanceKm: 5, trafficFactor: 2, want: 24},
		{name: "non-positive traffic defaults to 1", distanceKm: 5, trafficFactor: 0, want: 12},
		{name: "one hour", distanceKm: 25, trafficFactor: 1, want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kernel.EstimateTravelMinutes(tt.distanceKm, tt.trafficFactor))
		})
	}
}

func TestNewZone(t *testing.T) {
	assert.Equal(t, kernel.Zone("HYD-CENTRAL"), kernel.NewZone(" hyd-central "))
	assert.True(t, kernel.NewZone("a").IsKnown())
	assert.False(t, kernel.NewZone("  ").IsKnown())
}
