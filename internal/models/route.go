package models

import "math"

// RouteResult - результат расчета маршрута для конкретной пары координат (офицер, инцидент)
type RouteResult struct {
	Waypoints       []Coordinate `json:"waypoints"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	From            Coordinate   `json:"from"`
	To              Coordinate   `json:"to"`
}

// DistanceKm - дистанция в километрах, округленная до 2 знаков
func (r *RouteResult) DistanceKm() float64 {
	return math.Round(r.DistanceMeters/1000*100) / 100
}

// EtaMinutes - время в пути в минутах, округленное до целого
func (r *RouteResult) EtaMinutes() int {
	return int(math.Round(r.DurationSeconds / 60))
}
