package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/dispatch_coordination_system/internal/dispatch"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

// console возвращает консоль офицера из заголовка X-Officer-ID
func (h *Handler) console(c *gin.Context, log *logrus.Entry) (dispatch.Console, bool) {
	console, err := h.consoles.Console(c.Request.Context(), officerID(c))
	if err != nil {
		h.respondError(c, log, err)
		return nil, false
	}
	return console, true
}

func (h *Handler) dispatchLog(c *gin.Context, method string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{"method": method, "officer_id": officerID(c)})
}

// @Summary Get officer console state
// @Description Get selected incident, officer position, routing state and view directive. Requires API key and officer ID.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Success 200 {object} DispatchStateResponse
// @Failure 400 {object} map[string]string "Officer ID missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /dispatch/state [get]
func (h *Handler) getDispatchState(c *gin.Context) {
	console, ok := h.console(c, h.dispatchLog(c, "getDispatchState"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StateToResponse(console.Snapshot()))
}

// @Summary Select incident
// @Description Select an incident on the officer console. Any active route is cancelled. When the incident does not exist the current selection and route are left unchanged. Requires API key and officer ID.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Param selection body SelectIncidentRequest true "Incident selection"
// @Success 200 {object} DispatchStateResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Selection superseded"
// @Router /dispatch/selection [post]
func (h *Handler) selectIncident(c *gin.Context) {
	log := h.dispatchLog(c, "selectIncident")

	var input SelectIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := uuid.Parse(input.IncidentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}

	console, ok := h.console(c, log)
	if !ok {
		return
	}
	st, err := console.SelectIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log.WithField("id", id), err)
		return
	}
	c.JSON(http.StatusOK, StateToResponse(st))
}

// @Summary Clear selection
// @Description Clear the selected incident and cancel routing. Requires API key and officer ID.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Success 200 {object} DispatchStateResponse
// @Router /dispatch/selection [delete]
func (h *Handler) clearSelection(c *gin.Context) {
	log := h.dispatchLog(c, "clearSelection")
	console, ok := h.console(c, log)
	if !ok {
		return
	}
	st, err := console.ClearSelection(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StateToResponse(st))
}

// @Summary Toggle routing
// @Description Start route computation from idle/failed, or cancel it from computing/ready. Requires API key and officer ID.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Success 200 {object} DispatchStateResponse
// @Failure 412 {object} map[string]interface{} "Cannot route: missing officer position or incident"
// @Router /dispatch/routing/toggle [post]
func (h *Handler) toggleRouting(c *gin.Context) {
	log := h.dispatchLog(c, "toggleRouting")
	console, ok := h.console(c, log)
	if !ok {
		return
	}
	st, err := console.ToggleRouting(c.Request.Context())
	if errors.Is(err, models.ErrPreconditionFailed) {
		log.WithField("reason", st.Routing.Reason).Info("Routing precondition failed")
		c.JSON(http.StatusPreconditionFailed, gin.H{
			"error": err.Error(),
			"state": StateToResponse(st),
		})
		return
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StateToResponse(st))
}

// @Summary Cancel routing
// @Description Cancel route computation. No-op when routing is idle. Requires API key and officer ID.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Success 200 {object} DispatchStateResponse
// @Router /dispatch/routing [delete]
func (h *Handler) cancelRouting(c *gin.Context) {
	log := h.dispatchLog(c, "cancelRouting")
	console, ok := h.console(c, log)
	if !ok {
		return
	}
	st, err := console.CancelRouting(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, StateToResponse(st))
}

// @Summary Publish officer position
// @Description Publish the officer's current coordinate to the position feed. Requires API key and officer ID.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Param position body PositionRequest true "Officer position"
// @Success 202 "Accepted"
// @Failure 400 {object} map[string]string "Invalid coordinate"
// @Router /dispatch/position [post]
func (h *Handler) publishPosition(c *gin.Context) {
	log := h.dispatchLog(c, "publishPosition")

	var input PositionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coord := models.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
	if err := h.consoles.PublishPosition(c.Request.Context(), officerID(c), coord); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// @Summary Apply status update from console
// @Description Apply a status update through the officer console; closing the selected incident stops routing. Requires API key and officer ID.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-Officer-ID header string true "Officer ID"
// @Param id path string true "Incident ID"
// @Param update body StatusUpdateRequest true "Status update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /dispatch/incidents/{id}/status [put]
func (h *Handler) applyStatusUpdate(c *gin.Context) {
	log := h.dispatchLog(c, "applyStatusUpdate")

	id, input, ok := h.bindStatusUpdate(c, log)
	if !ok {
		return
	}
	log = log.WithField("id", id)

	console, ok := h.console(c, log)
	if !ok {
		return
	}
	incident, err := console.ApplyStatusUpdate(c.Request.Context(), id, DTOToStatusUpdate(*input, officerID(c)))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}
