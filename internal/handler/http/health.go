package http

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health reports process and database health. The probe resolves a slug
// that cannot exist; anything other than "not found" means the store is
// unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	_, err := h.storage.ResolveOutbound(ctx, domain.KindPartner, "health-check-non-existent")
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	})
}

// Ready is the readiness probe.
func (h *HealthHandler) Ready(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}
