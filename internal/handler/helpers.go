package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/smolblud/forge/internal/domain"
	"github.com/smolblud/forge/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTimeout):
		httputil.RespondError(w, http.StatusGatewayTimeout, "collaborator timed out")
	case errors.Is(err, domain.ErrUnavailable):
		httputil.RespondError(w, http.StatusServiceUnavailable, "collaborator unavailable")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID extracts a numeric {id} path parameter. Responds with a 400 and
// returns false when the value is missing or not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid conversation ID")
		return 0, false
	}
	return id, true
}
