package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakpoint-health/intake-scheduler/internal/directory"
	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

// PhysicianHandler serves the read-only roster and availability helpers.
type PhysicianHandler struct {
	dir    *directory.Directory
	sched  *schedule.Scheduler
	loc    *time.Location
	now    func() time.Time
	logger *logging.Logger
}

// NewPhysicianHandler creates a physician handler.
func NewPhysicianHandler(dir *directory.Directory, sched *schedule.Scheduler, loc *time.Location, logger *logging.Logger) *PhysicianHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PhysicianHandler{dir: dir, sched: sched, loc: loc, now: time.Now, logger: logger}
}

// List handles GET /physicians, returning roster names in roster order.
func (h *PhysicianHandler) List(w http.ResponseWriter, r *http.Request) {
	names := h.dir.ListNames()
	writeJSON(w, http.StatusOK, map[string]any{
		"physicians": names,
		"count":      len(names),
	})
}

// AvailableSlots handles GET /physicians/{physicianID}/slots?month=&day=,
// the session-independent availability helper.
func (h *PhysicianHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	physicianID, err := strconv.ParseInt(chi.URLParam(r, "physicianID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid physician id"})
		return
	}
	day, month, err := dateQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date"})
		return
	}

	date := time.Date(h.now().Year(), time.Month(month), day, 0, 0, 0, 0, h.loc)
	slots := h.sched.AvailableSlots(physicianID, date)
	writeJSON(w, http.StatusOK, map[string]any{
		"slots": slots,
		"count": len(slots),
	})
}
