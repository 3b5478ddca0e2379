package handler

import (
	"net/http"

	"github.com/smolblud/forge/internal/coach"
	"github.com/smolblud/forge/internal/httputil"
)

// HealthHandler reports service and per-agent readiness.
type HealthHandler struct {
	handles *coach.Handles
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(handles *coach.Handles) *HealthHandler {
	return &HealthHandler{handles: handles}
}

// Root is the service banner.
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Forge AI Writing Coach API is running",
	})
}

// Health reports per-agent availability.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"agents": h.handles.Agents(),
	})
}
