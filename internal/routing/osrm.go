package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/paulmach/orb"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
)

// OSRM API response structures for car routing
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64      `json:"distance"` // in meters
	Duration float64      `json:"duration"` // in seconds
	Geometry osrmGeometry `json:"geometry"`
}

type osrmGeometry struct {
	Type        string      `json:"type"`
	Coordinates []orb.Point `json:"coordinates"`
}

// OSRMEngine считает маршрут через OSRM HTTP API
type OSRMEngine struct {
	baseURL    string
	httpClient *http.Client
}

func NewOSRMEngine(baseURL string, httpClient *http.Client) *OSRMEngine {
	return &OSRMEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (e *OSRMEngine) Solve(from, to models.Coordinate) Invocation {
	return Start(e.route, from, to)
}

func (e *OSRMEngine) route(ctx context.Context, from, to models.Coordinate) (*models.RouteResult, error) {
	// OSRM ожидает lng,lat;lng,lat
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson&alternatives=false&steps=false",
		e.baseURL,
		from.Longitude, from.Latitude,
		to.Longitude, to.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OSRM API: %w", err)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode OSRM response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || body.Code != "Ok" {
		return nil, fmt.Errorf("OSRM API returned status %d: %s %s", resp.StatusCode, body.Code, body.Message)
	}
	if len(body.Routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	route := body.Routes[0]
	waypoints := make([]models.Coordinate, 0, len(route.Geometry.Coordinates))
	for _, p := range route.Geometry.Coordinates {
		waypoints = append(waypoints, models.CoordinateFromPoint(p))
	}
	if len(waypoints) == 0 {
		waypoints = []models.Coordinate{from, to}
	}

	return &models.RouteResult{
		Waypoints:       waypoints,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		From:            from,
		To:              to,
	}, nil
}
