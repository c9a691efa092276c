package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oakpoint-health/intake-scheduler/internal/session"
)

func TestWriteSessionErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing fields", &session.MissingFieldsError{Fields: []string{"name"}}, http.StatusUnprocessableEntity},
		{"slot unavailable", &session.SlotUnavailableError{PhysicianName: "Dr. Smith"}, http.StatusConflict},
		{"session not found", session.ErrSessionNotFound, http.StatusNotFound},
		{"physician not found", session.ErrPhysicianNotFound, http.StatusNotFound},
		{"physician not selected", session.ErrPhysicianNotSelected, http.StatusConflict},
		{"invalid date", session.ErrInvalidDateTime, http.StatusBadRequest},
		{"session ended", session.ErrSessionEnded, http.StatusGone},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeSessionError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestWriteSessionErrorInternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSessionError(rec, errors.New("connection string postgres://x:y@z"))

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal error" {
		t.Errorf("internal errors must not leak detail, got %q", body.Error)
	}
}
