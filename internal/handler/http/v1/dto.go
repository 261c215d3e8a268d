package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/dispatch_coordination_system/internal/dispatch"
)

// StatusUpdateRequest DTO для изменения статуса инцидента
// @Description DTO для изменения статуса инцидента
type StatusUpdateRequest struct {
	Status              *string  `json:"status,omitempty" validate:"omitempty,oneof=reported in-progress resolved archived"`
	Severity            *string  `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Notes               string   `json:"notes" validate:"required,max=4000"`
	AuthoritiesToNotify []string `json:"authorities_to_notify,omitempty" validate:"omitempty,dive,oneof=police ambulance fire disaster"`
}

// SelectIncidentRequest DTO для выбора инцидента на консоли
// @Description DTO для выбора инцидента на консоли
type SelectIncidentRequest struct {
	IncidentID string `json:"incident_id" validate:"required,uuid"`
}

// PositionRequest DTO для публикации позиции офицера
// @Description DTO для публикации позиции офицера
type PositionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// NoteResponse DTO заметки аудита
// @Description DTO заметки аудита
type NoteResponse struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                  uuid.UUID      `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	Latitude            float64        `json:"latitude"`
	Longitude           float64        `json:"longitude"`
	Status              string         `json:"status"`
	Severity            string         `json:"severity"`
	NotifiedAuthorities []string       `json:"notified_authorities"`
	Notes               []NoteResponse `json:"notes,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// AuthorityResponse DTO экстренной службы
// @Description DTO экстренной службы
type AuthorityResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// PositionResponse DTO позиции офицера
// @Description DTO позиции офицера
type PositionResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RoutingResponse DTO состояния маршрутизации
// @Description DTO состояния маршрутизации
type RoutingResponse struct {
	Phase      string   `json:"phase"`
	Seq        uint64   `json:"seq"`
	Reason     string   `json:"reason,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	EtaMinutes *int     `json:"eta_minutes,omitempty"`
}

// DispatchStateResponse DTO состояния консоли офицера
// @Description DTO состояния консоли офицера
type DispatchStateResponse struct {
	Revision         uint64                 `json:"revision"`
	OfficerID        string                 `json:"officer_id"`
	SelectedIncident *IncidentResponse      `json:"selected_incident,omitempty"`
	OfficerPosition  *PositionResponse      `json:"officer_position,omitempty"`
	Routing          RoutingResponse        `json:"routing"`
	View             dispatch.ViewDirective `json:"view"`
}
