package handlers

import (
	"net/http"

	"warehouse-backend/internal/events"
	"warehouse-backend/internal/health"
	"warehouse-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
	Hub     *events.Hub
}

func NewHealthHandler(checker *health.HealthChecker, hub *events.Hub) *HealthHandler {
	return &HealthHandler{Checker: checker, Hub: hub}
}

// Health is the load-balancer probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// System returns host and database resource stats for the admin dashboard.
func (h *HealthHandler) System(w http.ResponseWriter, r *http.Request) {
	st := h.Checker.CheckSystem(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"system":            st,
		"websocket_clients": h.Hub.ClientCount(),
	})
}
