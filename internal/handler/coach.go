package handler

import (
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/smolblud/forge/internal/coach"
	"github.com/smolblud/forge/internal/domain/services"
	"github.com/smolblud/forge/internal/httputil"
)

// Exact wire messages for the submit contract.
const (
	errNoText         = "No text provided."
	errNotInitialized = "Agentic flow not initialized."
)

// CoachHandler handles the unified submit endpoint.
type CoachHandler struct {
	coach   services.Coach
	handles *coach.Handles
	logger  *slog.Logger
}

// NewCoachHandler creates a new coach handler. coach may be nil when startup
// initialization failed; every submit then reports the degraded state.
func NewCoachHandler(coachSvc services.Coach, handles *coach.Handles, logger *slog.Logger) *CoachHandler {
	return &CoachHandler{
		coach:   coachSvc,
		handles: handles,
		logger:  logger,
	}
}

type submitRequest struct {
	Text           string `json:"text"`
	ConversationID *int64 `json:"conversation_id"`
}

func (r submitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Length(0, 20000)),
	)
}

// Submit runs one full coach cycle.
// POST /submit
func (h *CoachHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.coach == nil || !h.handles.Available() {
		if h.handles != nil && h.handles.InitErr != nil {
			h.logger.Error("submit rejected, collaborators not initialized", "error", h.handles.InitErr)
		}
		httputil.RespondError(w, http.StatusInternalServerError, errNotInitialized)
		return
	}

	var req submitRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		httputil.RespondError(w, http.StatusBadRequest, errNoText)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.coach.Submit(r.Context(), req.Text, req.ConversationID)
	if err != nil {
		h.logger.Error("submit failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
