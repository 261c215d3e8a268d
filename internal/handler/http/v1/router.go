package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	protected := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))

	// Маршруты чтения инцидентов и workflow статусов
	incidents := protected.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id/status", OfficerMiddleware(h.logger), h.updateIncidentStatus)
	}

	// Справочник экстренных служб
	protected.GET("/authorities", h.listAuthorities)

	// Консоль офицера
	console := protected.Group("/dispatch", OfficerMiddleware(h.logger))
	{
		console.GET("/state", h.getDispatchState)
		console.POST("/selection", h.selectIncident)
		console.DELETE("/selection", h.clearSelection)
		console.POST("/routing/toggle", h.toggleRouting)
		console.DELETE("/routing", h.cancelRouting)
		console.POST("/position", h.publishPosition)
		console.PUT("/incidents/:id/status", h.applyStatusUpdate)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
