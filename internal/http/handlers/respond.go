package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
	"github.com/oakpoint-health/intake-scheduler/internal/session"
)

type errorResponse struct {
	Error        string          `json:"error"`
	Missing      []string        `json:"missing,omitempty"`
	Alternatives []schedule.Slot `json:"alternatives,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// writeSessionError maps the booking core's recoverable errors onto HTTP
// statuses the dialogue driver can branch on.
func writeSessionError(w http.ResponseWriter, err error) {
	var missing *session.MissingFieldsError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   missing.Error(),
			Missing: missing.Fields,
		})
		return
	}

	var unavailable *session.SlotUnavailableError
	if errors.As(err, &unavailable) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:        unavailable.Error(),
			Alternatives: unavailable.Alternatives,
		})
		return
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrPhysicianNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrPhysicianNotSelected):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrInvalidDateTime):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrSessionEnded):
		writeJSON(w, http.StatusGone, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
