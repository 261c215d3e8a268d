package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/dispatch_coordination_system/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	officerIDHeader = "X-Officer-ID"
	officerIDKey    = "officer_id"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range cfg.APIKeys {
			if key == apiKey {
				isValid = true
				break
			}
		}

		if !isValid {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// OfficerMiddleware требует заголовок X-Officer-ID и кладет идентификатор офицера в контекст
func OfficerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		officerID := strings.TrimSpace(c.GetHeader(officerIDHeader))
		if officerID == "" {
			log.Warn("Officer ID missing from request")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Officer-ID header required"})
			return
		}
		c.Set(officerIDKey, officerID)
		c.Next()
	}
}

func officerID(c *gin.Context) string {
	return c.GetString(officerIDKey)
}
