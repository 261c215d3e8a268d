package routing

import (
	"context"

	"github.com/shenikar/dispatch_coordination_system/internal/models"
)

// StraightLineEngine оценивает маршрут по прямой (формула гаверсинуса) и средней скорости.
// Используется, когда внешний роутер не настроен.
type StraightLineEngine struct {
	speedKmh float64
}

func NewStraightLineEngine(speedKmh float64) *StraightLineEngine {
	return &StraightLineEngine{speedKmh: speedKmh}
}

func (e *StraightLineEngine) Solve(from, to models.Coordinate) Invocation {
	return Start(e.estimate, from, to)
}

func (e *StraightLineEngine) estimate(ctx context.Context, from, to models.Coordinate) (*models.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	distance := from.DistanceTo(to)
	return &models.RouteResult{
		Waypoints:       []models.Coordinate{from, to},
		DistanceMeters:  distance,
		DurationSeconds: distance / (e.speedKmh * 1000 / 3600),
		From:            from,
		To:              to,
	}, nil
}
