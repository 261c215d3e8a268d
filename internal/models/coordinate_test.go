package models

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"origin", Coordinate{}, false},
		{"colombo", Coordinate{Latitude: 6.9271, Longitude: 79.8612}, false},
		{"bounds", Coordinate{Latitude: -90, Longitude: 180}, false},
		{"latitude too high", Coordinate{Latitude: 90.01}, true},
		{"longitude too low", Coordinate{Longitude: -180.5}, true},
		{"nan", Coordinate{Latitude: math.NaN()}, true},
		{"inf", Coordinate{Longitude: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoordinate_PointRoundTrip(t *testing.T) {
	c := Coordinate{Latitude: 6.95, Longitude: 79.85}

	assert.Equal(t, orb.Point{79.85, 6.95}, c.Point())
	assert.Equal(t, c, CoordinateFromPoint(c.Point()))
}

func TestCoordinate_DistanceTo(t *testing.T) {
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 1, Longitude: 0}

	assert.InDelta(t, 111_250, a.DistanceTo(b), 200)
	assert.Zero(t, a.DistanceTo(a))
}

func TestRouteResult_Readout(t *testing.T) {
	r := &RouteResult{DistanceMeters: 8342, DurationSeconds: 720}
	assert.Equal(t, 8.34, r.DistanceKm())
	assert.Equal(t, 12, r.EtaMinutes())

	r = &RouteResult{DistanceMeters: 1234, DurationSeconds: 89}
	assert.Equal(t, 1.23, r.DistanceKm())
	assert.Equal(t, 1, r.EtaMinutes())
}
