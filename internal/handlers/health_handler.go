package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Counter reports how many results are held in memory.
type Counter interface {
	Count() int
}

// HealthHandler reports liveness and store size.
type HealthHandler struct {
	Service     string
	Version     string
	Environment string
	Counter     Counter

	started time.Time
	now     func() time.Time
}

func NewHealthHandler(service, version, environment string, counter Counter) *HealthHandler {
	return &HealthHandler{
		Service:     service,
		Version:     version,
		Environment: environment,
		Counter:     counter,
		started:     time.Now(),
		now:         time.Now,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	response := gin.H{
		"status":         "OK",
		"service":        h.Service,
		"version":        h.Version,
		"environment":    h.Environment,
		"timestamp":      now.UTC().Format(time.RFC3339),
		"uptime_seconds": int64(now.Sub(h.started).Seconds()),
	}
	if h.Counter != nil {
		response["stored_results"] = h.Counter.Count()
	}
	c.JSON(http.StatusOK, response)
}
