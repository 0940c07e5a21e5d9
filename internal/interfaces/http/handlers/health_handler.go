package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsearch "github.com/praxisip/molscope/internal/application/search"
	"github.com/praxisip/molscope/pkg/types/common"
)

// HealthHandler serves liveness and runtime statistics.
type HealthHandler struct {
	service *appsearch.Service
	version string
}

func NewHealthHandler(service *appsearch.Service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": common.NewTimestamp(),
	})
}

// Stats handles GET /stats.
func (h *HealthHandler) Stats(c *gin.Context) {
	writeOK(c, h.service.Stats())
}
