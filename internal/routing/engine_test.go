package routing

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wait(t *testing.T, inv Invocation) (*models.RouteResult, error) {
	t.Helper()
	select {
	case <-inv.Done():
		return inv.Result()
	case <-time.After(2 * time.Second):
		t.Fatal("invocation did not finish")
		return nil, nil
	}
}

func TestOSRMEngine_Solve(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":"Ok","routes":[{"distance":8342,"duration":720,
			"geometry":{"type":"LineString","coordinates":[[79.8,6.9],[79.82,6.92],[79.85,6.95]]}}]}`)
	}))
	defer srv.Close()

	engine := NewOSRMEngine(srv.URL+"/", srv.Client())
	result, err := wait(t, engine.Solve(officer, incident))

	require.NoError(t, err)
	assert.Equal(t, "/route/v1/driving/79.800000,6.900000;79.850000,6.950000", gotPath)
	assert.Equal(t, 8342.0, result.DistanceMeters)
	assert.Equal(t, 720.0, result.DurationSeconds)
	require.Len(t, result.Waypoints, 3)
	assert.Equal(t, officer, result.Waypoints[0])
	assert.Equal(t, incident, result.Waypoints[2])
	assert.Equal(t, incident, result.To)
}

func TestOSRMEngine_NoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":"NoRoute","message":"Impossible route between points"}`)
	}))
	defer srv.Close()

	_, err := wait(t, NewOSRMEngine(srv.URL, srv.Client()).Solve(officer, incident))

	require.Error(t, err)
	assert.ErrorContains(t, err, "NoRoute")
}

func TestOSRMEngine_DisposeMidComputation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	inv := NewOSRMEngine(srv.URL, srv.Client()).Solve(officer, incident)
	inv.Dispose()
	inv.Dispose()

	_, err := wait(t, inv)
	require.Error(t, err)
}

func TestStraightLineEngine_Solve(t *testing.T) {
	engine := NewStraightLineEngine(36)

	result, err := wait(t, engine.Solve(officer, incident))

	require.NoError(t, err)
	expected := officer.DistanceTo(incident)
	assert.InDelta(t, expected, result.DistanceMeters, 0.001)
	// 36 км/ч = 10 м/с
	assert.InDelta(t, expected/10, result.DurationSeconds, 0.001)
	assert.Equal(t, []models.Coordinate{officer, incident}, result.Waypoints)
}
