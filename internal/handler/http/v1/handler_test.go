package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/dispatch_coordination_system/internal/config"
	"github.com/shenikar/dispatch_coordination_system/internal/dispatch"
	dispatch_mocks "github.com/shenikar/dispatch_coordination_system/internal/dispatch/mocks"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
	"github.com/shenikar/dispatch_coordination_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	apiKeyHeader  = map[string]string{"X-API-Key": "test-api-key"}
	officerHeader = map[string]string{"X-API-Key": "test-api-key", "X-Officer-ID": "officer-7"}
)

// newTestHandler создает новый экземпляр Handler с мокированными сервисом и консолями
func newTestHandler(t *testing.T) (*Handler, *mocks.MockIncidentService, *dispatch_mocks.MockConsoles, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockIncidentService(ctrl)
	mockConsoles := dispatch_mocks.NewMockConsoles(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(mockService, mockConsoles, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, mockService, mockConsoles, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func sampleIncident() *models.Incident {
	return &models.Incident{
		ID:                  uuid.New(),
		Title:               "Building fire",
		Coordinate:          models.Coordinate{Latitude: 6.95, Longitude: 79.85},
		Status:              models.StatusInProgress,
		Severity:            models.SeverityCritical,
		NotifiedAuthorities: []models.AuthorityID{models.AuthorityFire},
		Notes:               []models.Note{{Author: "officer-7", Text: "on scene", Timestamp: time.Now().UTC()}},
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}
}

func TestHealthCheck_NoAuth(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAuth_MissingAndInvalidKey(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")

	w = makeRequest(router, "GET", "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestListIncidents_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	incident := sampleIncident()

	mockService.EXPECT().
		ListIncidents(gomock.Any(), models.IncidentFilter{Status: models.StatusInProgress, Page: 2, PageSize: 5}).
		Return([]*models.Incident{incident}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=in-progress&page=2&pageSize=5", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, incident.ID, resp[0].ID)
	assert.Equal(t, "in-progress", resp[0].Status)
	assert.Equal(t, []string{"fire"}, resp[0].NotifiedAuthorities)
	assert.Equal(t, 79.85, resp[0].Longitude)
}

func TestListIncidents_InvalidFilter(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().
		ListIncidents(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w: unknown status", models.ErrValidation))

	w := makeRequest(router, "GET", "/api/v1/incidents?status=closed", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIncidents_ServiceError(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().
		ListIncidents(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("db down"))

	w := makeRequest(router, "GET", "/api/v1/incidents", nil, apiKeyHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetIncident_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	incident := sampleIncident()

	mockService.EXPECT().GetIncident(gomock.Any(), incident.ID).Return(incident, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incident.ID.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incident.Title, resp.Title)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "on scene", resp.Notes[0].Text)
}

func TestGetIncident_NotFound(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().GetIncident(gomock.Any(), id).Return(nil, fmt.Errorf("service: %w", models.ErrNotFound))

	w := makeRequest(router, "GET", "/api/v1/incidents/"+id.String(), nil, apiKeyHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestUpdateIncidentStatus_Success(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	incident := sampleIncident()
	incident.Status = models.StatusResolved
	status := "resolved"

	mockService.EXPECT().
		ApplyUpdate(gomock.Any(), incident.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ uuid.UUID, update models.StatusUpdate) (*models.Incident, error) {
			require.NotNil(t, update.Status)
			assert.Equal(t, models.StatusResolved, *update.Status)
			assert.Equal(t, "officer-7", update.Author)
			assert.Equal(t, "closed on site", update.Notes)
			assert.Equal(t, []models.AuthorityID{models.AuthorityPolice}, update.AuthoritiesToNotify)
			return incident, nil
		})

	w := makeRequest(router, "PUT", "/api/v1/incidents/"+incident.ID.String()+"/status", jsonBody(t, StatusUpdateRequest{
		Status:              &status,
		Notes:               "closed on site",
		AuthoritiesToNotify: []string{"police"},
	}), officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"resolved"`)
}

func TestUpdateIncidentStatus_EmptyNotes(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().ApplyUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "PUT", "/api/v1/incidents/"+uuid.NewString()+"/status", jsonBody(t, StatusUpdateRequest{Notes: ""}), officerHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateIncidentStatus_UnknownAuthority(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().ApplyUpdate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", "/api/v1/incidents/"+uuid.NewString()+"/status", jsonBody(t, StatusUpdateRequest{
		Notes:               "need backup",
		AuthoritiesToNotify: []string{"navy"},
	}), officerHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateIncidentStatus_TerminalIncident(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().
		ApplyUpdate(gomock.Any(), id, gomock.Any()).
		Return(nil, fmt.Errorf("service: %w: incident is resolved", models.ErrInvalidTransition))

	w := makeRequest(router, "PUT", "/api/v1/incidents/"+id.String()+"/status", jsonBody(t, StatusUpdateRequest{Notes: "reopen"}), officerHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateIncidentStatus_RequiresOfficer(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "PUT", "/api/v1/incidents/"+uuid.NewString()+"/status", jsonBody(t, StatusUpdateRequest{Notes: "x"}), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-Officer-ID")
}

func TestListAuthorities(t *testing.T) {
	_, mockService, _, router := newTestHandler(t)

	mockService.EXPECT().Authorities().Return(models.Authorities())

	w := makeRequest(router, "GET", "/api/v1/authorities", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []AuthorityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 4)
	assert.Equal(t, AuthorityResponse{ID: "ambulance", Name: "Suwa Seriya Ambulance", Contact: "1990"}, resp[1])
}

func expectConsole(t *testing.T, consoles *dispatch_mocks.MockConsoles) *dispatch_mocks.MockConsole {
	t.Helper()
	console := dispatch_mocks.NewMockConsole(gomock.NewController(t))
	consoles.EXPECT().Console(gomock.Any(), "officer-7").Return(console, nil)
	return console
}

func TestGetDispatchState_ReadyRoute(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)
	incident := sampleIncident()

	console.EXPECT().Snapshot().Return(dispatch.State{
		Revision:         4,
		OfficerID:        "officer-7",
		SelectedIncident: incident,
		Routing: routing.State{
			Phase:  routing.PhaseReady,
			Seq:    2,
			Result: &models.RouteResult{DistanceMeters: 8342, DurationSeconds: 720},
		},
	})

	w := makeRequest(router, "GET", "/api/v1/dispatch/state", nil, officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp DispatchStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(4), resp.Revision)
	assert.Equal(t, "ready", resp.Routing.Phase)
	require.NotNil(t, resp.Routing.DistanceKm)
	assert.Equal(t, 8.34, *resp.Routing.DistanceKm)
	require.NotNil(t, resp.Routing.EtaMinutes)
	assert.Equal(t, 12, *resp.Routing.EtaMinutes)
	assert.Equal(t, incident.ID, resp.SelectedIncident.ID)
}

func TestGetDispatchState_RequiresOfficer(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/dispatch/state", nil, apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectIncident_Success(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)
	incident := sampleIncident()

	console.EXPECT().
		SelectIncident(gomock.Any(), incident.ID).
		Return(dispatch.State{Revision: 1, OfficerID: "officer-7", SelectedIncident: incident, Routing: routing.State{Phase: routing.PhaseIdle}}, nil)

	w := makeRequest(router, "POST", "/api/v1/dispatch/selection", jsonBody(t, SelectIncidentRequest{IncidentID: incident.ID.String()}), officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), incident.ID.String())
	assert.Contains(t, w.Body.String(), `"phase":"idle"`)
}

func TestSelectIncident_InvalidBody(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "POST", "/api/v1/dispatch/selection", jsonBody(t, SelectIncidentRequest{IncidentID: "nope"}), officerHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectIncident_Superseded(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)
	id := uuid.New()

	console.EXPECT().SelectIncident(gomock.Any(), id).Return(dispatch.State{}, models.ErrSelectionSuperseded)

	w := makeRequest(router, "POST", "/api/v1/dispatch/selection", jsonBody(t, SelectIncidentRequest{IncidentID: id.String()}), officerHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClearSelection(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)

	console.EXPECT().ClearSelection(gomock.Any()).Return(dispatch.State{Revision: 3, Routing: routing.State{Phase: routing.PhaseIdle}}, nil)

	w := makeRequest(router, "DELETE", "/api/v1/dispatch/selection", nil, officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "selected_incident")
}

func TestToggleRouting_PreconditionFailed(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)

	console.EXPECT().
		ToggleRouting(gomock.Any()).
		Return(dispatch.State{Routing: routing.State{Phase: routing.PhaseIdle, Reason: routing.ReasonNoOfficerPosition}},
			fmt.Errorf("%w: %s", models.ErrPreconditionFailed, routing.ReasonNoOfficerPosition))

	w := makeRequest(router, "POST", "/api/v1/dispatch/routing/toggle", nil, officerHeader)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), routing.ReasonNoOfficerPosition)
}

func TestToggleRouting_Computing(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)

	console.EXPECT().ToggleRouting(gomock.Any()).Return(dispatch.State{Routing: routing.State{Phase: routing.PhaseComputing, Seq: 1}}, nil)

	w := makeRequest(router, "POST", "/api/v1/dispatch/routing/toggle", nil, officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"computing"`)
	assert.NotContains(t, w.Body.String(), "distance_km")
}

func TestCancelRouting(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)

	console.EXPECT().CancelRouting(gomock.Any()).Return(dispatch.State{Routing: routing.State{Phase: routing.PhaseIdle}}, nil)

	w := makeRequest(router, "DELETE", "/api/v1/dispatch/routing", nil, officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublishPosition_Success(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	lat, lon := 6.9, 79.8

	consoles.EXPECT().
		PublishPosition(gomock.Any(), "officer-7", models.Coordinate{Latitude: 6.9, Longitude: 79.8}).
		Return(nil)

	w := makeRequest(router, "POST", "/api/v1/dispatch/position", jsonBody(t, PositionRequest{Latitude: &lat, Longitude: &lon}), officerHeader)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestPublishPosition_Equator(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	zero := 0.0

	consoles.EXPECT().PublishPosition(gomock.Any(), "officer-7", models.Coordinate{}).Return(nil)

	w := makeRequest(router, "POST", "/api/v1/dispatch/position", jsonBody(t, PositionRequest{Latitude: &zero, Longitude: &zero}), officerHeader)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestPublishPosition_OutOfRange(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, "POST", "/api/v1/dispatch/position", bytes.NewBufferString(`{"latitude": 91, "longitude": 10}`), officerHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyStatusUpdate_ThroughConsole(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)
	console := expectConsole(t, consoles)
	incident := sampleIncident()
	incident.Status = models.StatusArchived
	status := "archived"

	console.EXPECT().
		ApplyStatusUpdate(gomock.Any(), incident.ID, gomock.Any()).
		Return(incident, nil)

	w := makeRequest(router, "PUT", "/api/v1/dispatch/incidents/"+incident.ID.String()+"/status", jsonBody(t, StatusUpdateRequest{
		Status: &status,
		Notes:  "duplicate report",
	}), officerHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"archived"`)
}

func TestConsoleUnavailable(t *testing.T) {
	_, _, consoles, router := newTestHandler(t)

	consoles.EXPECT().Console(gomock.Any(), "officer-7").Return(nil, dispatch.ErrControllerStopped)

	w := makeRequest(router, "GET", "/api/v1/dispatch/state", nil, officerHeader)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
