package dispatch

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
)

// MarkerKind - тип маркера на карте
type MarkerKind string

const (
	MarkerOfficer  MarkerKind = "officer"
	MarkerIncident MarkerKind = "incident"
)

type Marker struct {
	Kind       MarkerKind        `json:"kind"`
	Coordinate models.Coordinate `json:"coordinate"`
}

// Readout - числовая сводка по готовому маршруту
type Readout struct {
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes int     `json:"eta_minutes"`
}

// ViewDirective - указание слою отображения: что показать на карте
type ViewDirective struct {
	CenterOn     *models.Coordinate `json:"center_on,omitempty"`
	Zoom         int                `json:"zoom,omitempty"`
	Markers      []Marker           `json:"markers"`
	RouteOverlay *geojson.Feature   `json:"route_overlay,omitempty"`
	Readout      *Readout           `json:"readout,omitempty"`
}

// ViewSync вычисляет ViewDirective по выбранному инциденту, позиции офицера и состоянию маршрута.
// Единственное внутреннее состояние - последний отцентрованный инцидент.
type ViewSync struct {
	zoom         int
	lastCentered uuid.UUID
}

func NewViewSync(zoom int) *ViewSync {
	return &ViewSync{zoom: zoom}
}

// Reset делает следующее центрирование снова возможным (новый выбор инцидента)
func (v *ViewSync) Reset() {
	v.lastCentered = uuid.Nil
}

func (v *ViewSync) Compute(incident *models.Incident, officer *models.OfficerPosition, route routing.State) ViewDirective {
	directive := ViewDirective{Markers: make([]Marker, 0, 2)}

	if incident == nil {
		v.Reset()
	} else if incident.ID != v.lastCentered {
		center := incident.Coordinate
		directive.CenterOn = &center
		directive.Zoom = v.zoom
		v.lastCentered = incident.ID
	}

	if officer != nil && incident != nil {
		directive.Markers = append(directive.Markers,
			Marker{Kind: MarkerOfficer, Coordinate: officer.Coordinate},
			Marker{Kind: MarkerIncident, Coordinate: incident.Coordinate},
		)
	}

	if route.Phase == routing.PhaseReady && route.Result != nil {
		directive.RouteOverlay = routeFeature(route.Result)
		directive.Readout = &Readout{
			DistanceKm: route.Result.DistanceKm(),
			EtaMinutes: route.Result.EtaMinutes(),
		}
	}
	return directive
}

func routeFeature(result *models.RouteResult) *geojson.Feature {
	line := make(orb.LineString, 0, len(result.Waypoints))
	for _, wp := range result.Waypoints {
		line = append(line, wp.Point())
	}
	feature := geojson.NewFeature(line)
	feature.Properties["distance_km"] = result.DistanceKm()
	feature.Properties["eta_minutes"] = result.EtaMinutes()
	return feature
}
