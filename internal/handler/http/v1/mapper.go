package v1

import (
	"github.com/shenikar/dispatch_coordination_system/internal/dispatch"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
)

// DTOToStatusUpdate преобразует DTO изменения статуса в доменную модель
func DTOToStatusUpdate(dto StatusUpdateRequest, author string) models.StatusUpdate {
	update := models.StatusUpdate{
		Notes:  dto.Notes,
		Author: author,
	}
	if dto.Status != nil {
		s := models.Status(*dto.Status)
		update.Status = &s
	}
	if dto.Severity != nil {
		s := models.Severity(*dto.Severity)
		update.Severity = &s
	}
	for _, a := range dto.AuthoritiesToNotify {
		update.AuthoritiesToNotify = append(update.AuthoritiesToNotify, models.AuthorityID(a))
	}
	return update
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	notified := make([]string, len(model.NotifiedAuthorities))
	for i, a := range model.NotifiedAuthorities {
		notified[i] = string(a)
	}
	notes := make([]NoteResponse, len(model.Notes))
	for i, n := range model.Notes {
		notes[i] = NoteResponse{Author: n.Author, Text: n.Text, Timestamp: n.Timestamp}
	}
	return &IncidentResponse{
		ID:                  model.ID,
		Title:               model.Title,
		Description:         model.Description,
		Latitude:            model.Coordinate.Latitude,
		Longitude:           model.Coordinate.Longitude,
		Status:              string(model.Status),
		Severity:            string(model.Severity),
		NotifiedAuthorities: notified,
		Notes:               notes,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelsToAuthorityResponses(authorities []models.Authority) []AuthorityResponse {
	responses := make([]AuthorityResponse, len(authorities))
	for i, a := range authorities {
		responses[i] = AuthorityResponse{ID: string(a.ID), Name: a.Name, Contact: a.Contact}
	}
	return responses
}

// StateToResponse преобразует состояние консоли в DTO; числовая сводка есть только у готового маршрута
func StateToResponse(st dispatch.State) *DispatchStateResponse {
	resp := &DispatchStateResponse{
		Revision:  st.Revision,
		OfficerID: st.OfficerID,
		Routing: RoutingResponse{
			Phase:  string(st.Routing.Phase),
			Seq:    st.Routing.Seq,
			Reason: st.Routing.Reason,
		},
		View: st.View,
	}
	if st.SelectedIncident != nil {
		resp.SelectedIncident = ModelToIncidentResponse(st.SelectedIncident)
	}
	if st.OfficerPosition != nil {
		resp.OfficerPosition = &PositionResponse{
			Latitude:   st.OfficerPosition.Coordinate.Latitude,
			Longitude:  st.OfficerPosition.Coordinate.Longitude,
			RecordedAt: st.OfficerPosition.RecordedAt,
		}
	}
	if st.Routing.Phase == routing.PhaseReady && st.Routing.Result != nil {
		km := st.Routing.Result.DistanceKm()
		eta := st.Routing.Result.EtaMinutes()
		resp.Routing.DistanceKm = &km
		resp.Routing.EtaMinutes = &eta
	}
	return resp
}
