package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakpoint-health/intake-scheduler/internal/session"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

// SessionHandler exposes the booking session operations to the dialogue
// driver.
type SessionHandler struct {
	manager *session.Manager
	logger  *logging.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(manager *session.Manager, logger *logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{manager: manager, logger: logger}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.manager.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	return s, true
}

// Create handles POST /sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": s.ID(),
		"state":      string(s.State()),
	})
}

// UpdatePatient handles PATCH /sessions/{sessionID}/patient. Supplied fields
// overwrite prior values; omitted fields are untouched.
func (h *SessionHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var update session.PatientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := s.SetPatientFields(update); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   string(s.State()),
		"patient": s.Patient(),
	})
}

type selectPhysicianRequest struct {
	Name string `json:"name"`
}

// SelectPhysician handles PUT /sessions/{sessionID}/physician.
func (h *SessionHandler) SelectPhysician(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectPhysicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	physician, err := s.SelectPhysician(req.Name)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Physician was successfully recorded.",
		"physician": physician,
		"state":     string(s.State()),
	})
}

type slotRequest struct {
	Day    int `json:"day"`
	Month  int `json:"month"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// AvailableSlots handles GET /sessions/{sessionID}/slots?month=&day=.
func (h *SessionHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	day, month, err := dateQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	slots, err := s.AvailableSlots(day, month)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
		"count": len(slots),
	})
}

// CheckSlot handles POST /sessions/{sessionID}/slots/check. It never mutates
// the session.
func (h *SessionHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	available, err := s.CheckSlot(req.Day, req.Month, req.Hour, req.Minute)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"available": available,
	})
}

// SelectSlot handles PUT /sessions/{sessionID}/slot. Unavailable slots come
// back as 409 with the free slots for that date.
func (h *SessionHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	slot, err := s.SelectSlot(req.Day, req.Month, req.Hour, req.Minute)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Time slot was recorded correctly.",
		"slot":    slot,
		"state":   string(s.State()),
	})
}

// Confirm handles POST /sessions/{sessionID}/confirm. Every missing item is
// enumerated in one response.
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Confirm(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Everything looks good. Physician and time slot data have been recorded.",
		"state":   string(s.State()),
	})
}

// Book handles POST /sessions/{sessionID}/book.
func (h *SessionHandler) Book(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	appt, err := s.Book(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "The appointment was successfully recorded!",
		"appointment": appt,
		"state":       string(s.State()),
	})
}

// End handles DELETE /sessions/{sessionID}.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	state, err := h.manager.End(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"state": string(state),
	})
}

func dateQuery(r *http.Request) (day, month int, err error) {
	if _, err = fmt.Sscan(r.URL.Query().Get("day"), &day); err != nil {
		return 0, 0, fmt.Errorf("missing or invalid day query parameter")
	}
	if _, err = fmt.Sscan(r.URL.Query().Get("month"), &month); err != nil {
		return 0, 0, fmt.Errorf("missing or invalid month query parameter")
	}
	return day, month, nil
}
