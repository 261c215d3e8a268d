package dispatch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewSync_CentersOncePerSelection(t *testing.T) {
	// Подготовка
	v := NewViewSync(15)
	incident := &models.Incident{ID: uuid.New(), Coordinate: models.Coordinate{Latitude: 6.95, Longitude: 79.85}}
	idle := routing.State{Phase: routing.PhaseIdle}

	// Действие
	first := v.Compute(incident, nil, idle)
	second := v.Compute(incident, &models.OfficerPosition{Coordinate: models.Coordinate{Latitude: 6.9, Longitude: 79.8}}, idle)

	// Проверки
	require.NotNil(t, first.CenterOn)
	assert.Equal(t, incident.Coordinate, *first.CenterOn)
	assert.Equal(t, 15, first.Zoom)
	assert.Nil(t, second.CenterOn, "officer movement must not recenter the map")

	v.Reset()
	third := v.Compute(incident, nil, idle)
	assert.NotNil(t, third.CenterOn)
}

func TestViewSync_ClearingSelectionAllowsRecentering(t *testing.T) {
	v := NewViewSync(15)
	incident := &models.Incident{ID: uuid.New()}
	idle := routing.State{Phase: routing.PhaseIdle}

	v.Compute(incident, nil, idle)
	cleared := v.Compute(nil, nil, idle)
	again := v.Compute(incident, nil, idle)

	assert.Nil(t, cleared.CenterOn)
	assert.Empty(t, cleared.Markers)
	assert.NotNil(t, again.CenterOn)
}

func TestViewSync_MarkersRequireBothCoordinates(t *testing.T) {
	v := NewViewSync(15)
	incident := &models.Incident{ID: uuid.New(), Coordinate: models.Coordinate{Latitude: 6.95, Longitude: 79.85}}
	officer := &models.OfficerPosition{Coordinate: models.Coordinate{Latitude: 6.9, Longitude: 79.8}, RecordedAt: time.Now()}

	assert.Empty(t, v.Compute(incident, nil, routing.State{}).Markers)
	assert.Empty(t, v.Compute(nil, officer, routing.State{}).Markers)

	markers := v.Compute(incident, officer, routing.State{}).Markers
	require.Len(t, markers, 2)
	assert.Equal(t, Marker{Kind: MarkerOfficer, Coordinate: officer.Coordinate}, markers[0])
	assert.Equal(t, Marker{Kind: MarkerIncident, Coordinate: incident.Coordinate}, markers[1])
}

func TestViewSync_RouteOverlayOnlyWhenReady(t *testing.T) {
	// Подготовка
	v := NewViewSync(15)
	incident := &models.Incident{ID: uuid.New(), Coordinate: models.Coordinate{Latitude: 6.95, Longitude: 79.85}}
	result := &models.RouteResult{
		Waypoints: []models.Coordinate{
			{Latitude: 6.9, Longitude: 79.8},
			{Latitude: 6.92, Longitude: 79.83},
			{Latitude: 6.95, Longitude: 79.85},
		},
		DistanceMeters:  8342,
		DurationSeconds: 720,
	}

	for _, phase := range []routing.Phase{routing.PhaseIdle, routing.PhaseComputing, routing.PhaseFailed} {
		d := v.Compute(incident, nil, routing.State{Phase: phase, Result: result})
		assert.Nil(t, d.RouteOverlay, phase)
		assert.Nil(t, d.Readout, phase)
	}

	// Действие
	d := v.Compute(incident, nil, routing.State{Phase: routing.PhaseReady, Result: result})

	// Проверки
	require.NotNil(t, d.RouteOverlay)
	line, ok := d.RouteOverlay.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, 3)
	assert.Equal(t, orb.Point{79.8, 6.9}, line[0])
	assert.Equal(t, 8.34, d.RouteOverlay.Properties["distance_km"])
	assert.Equal(t, 12, d.RouteOverlay.Properties["eta_minutes"])
	require.NotNil(t, d.Readout)
	assert.Equal(t, Readout{DistanceKm: 8.34, EtaMinutes: 12}, *d.Readout)
}
