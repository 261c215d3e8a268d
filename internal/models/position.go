package models

import (
	"time"
)

// OfficerPosition - последняя известная позиция офицера. Каждое новое значение заменяет предыдущее.
type OfficerPosition struct {
	OfficerID  string     `json:"officer_id"`
	Coordinate Coordinate `json:"coordinate"`
	RecordedAt time.Time  `json:"recorded_at"`
}
