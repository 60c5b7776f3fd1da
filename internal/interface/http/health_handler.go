package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pixelpursuit/pixelpursuit-api/pkg/response"
)

type HealthHandler struct {
	AppName string
	now     func() time.Time
}

func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{AppName: appName, now: time.Now}
}

// Health GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "OK", "time": h.now().UTC()}, "healthy", nil)
}

// Index GET /
func (h *HealthHandler) Index(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"name": h.AppName,
		"endpoints": gin.H{
			"auth": []string{"POST /api/auth/register", "POST /api/auth/login", "GET /api/auth/me"},
			"jobs": []string{
				"GET /api/jobs", "GET /api/jobs/:id", "POST /api/jobs",
				"DELETE /api/jobs/:id", "POST /api/jobs/:id/applications",
			},
			"health": []string{"GET /api/health"},
		},
	}, "welcome", nil)
}
