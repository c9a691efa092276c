package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakpoint-health/intake-scheduler/internal/directory"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

var scheduleTracer = otel.Tracer("intake.internal.schedule")

// Workday describes the bookable window of a calendar day.
type Workday struct {
	StartHour    int
	EndHour      int
	SlotDuration time.Duration
}

// DefaultWorkday is 08:00-17:00 in 30 minute slots.
func DefaultWorkday() Workday {
	return Workday{StartHour: 8, EndHour: 17, SlotDuration: DefaultSlotDuration}
}

// Appointment binds one patient, one physician, and one slot. It is created
// only by a successful Book and never modified afterwards.
type Appointment struct {
	ID        string              `json:"id"`
	Patient   Patient             `json:"patient"`
	Physician directory.Physician `json:"physician"`
	Slot      Slot                `json:"slot"`
	CreatedAt time.Time           `json:"created_at"`
}

// calendar holds one physician's committed slots. Its mutex serializes the
// check-then-commit sequence for that physician; calendars for different
// physicians never contend.
type calendar struct {
	mu    sync.RWMutex
	slots []Slot
}

// Scheduler is the single source of truth for committed appointments. A
// process runs exactly one instance, shared by every booking session.
type Scheduler struct {
	workday Workday
	logger  *logging.Logger

	mu        sync.RWMutex // guards the calendars map, not slot contents
	calendars map[int64]*calendar
}

// NewScheduler constructs a scheduler with the given workday window.
func NewScheduler(workday Workday, logger *logging.Logger) *Scheduler {
	if workday.SlotDuration <= 0 {
		workday.SlotDuration = DefaultSlotDuration
	}
	if workday.EndHour <= workday.StartHour {
		workday = DefaultWorkday()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		workday:   workday,
		logger:    logger,
		calendars: make(map[int64]*calendar),
	}
}

// Workday returns the configured bookable window.
func (s *Scheduler) Workday() Workday {
	return s.workday
}

func (s *Scheduler) calendarFor(physicianID int64) *calendar {
	s.mu.RLock()
	cal, ok := s.calendars[physicianID]
	s.mu.RUnlock()
	if ok {
		return cal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cal, ok = s.calendars[physicianID]; !ok {
		cal = &calendar{}
		s.calendars[physicianID] = cal
	}
	return cal
}

// IsAvailable reports whether no committed appointment for the physician
// overlaps the slot. A physician with no appointments is always available.
func (s *Scheduler) IsAvailable(physicianID int64, slot Slot) bool {
	cal := s.calendarFor(physicianID)
	cal.mu.RLock()
	defer cal.mu.RUnlock()
	return cal.available(slot)
}

// available must be called with the calendar lock held.
func (c *calendar) available(slot Slot) bool {
	for _, booked := range c.slots {
		if booked.Overlaps(slot) {
			return false
		}
	}
	return true
}

// AvailableSlots enumerates the free slots of the workday tiling on the given
// date, in chronological order. It is a pure function of committed state: the
// same calendar yields the same sequence every call.
func (s *Scheduler) AvailableSlots(physicianID int64, date time.Time) []Slot {
	cal := s.calendarFor(physicianID)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), s.workday.StartHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), s.workday.EndHour, 0, 0, 0, date.Location())

	cal.mu.RLock()
	defer cal.mu.RUnlock()

	var free []Slot
	for start := dayStart; !start.Add(s.workday.SlotDuration).After(dayEnd); start = start.Add(s.workday.SlotDuration) {
		candidate := NewSlot(start, s.workday.SlotDuration)
		if cal.available(candidate) {
			free = append(free, candidate)
		}
	}
	return free
}

// Book re-validates availability and commits the slot in one critical
// section, so no other booking attempt for the same physician can interleave
// between the check and the insert. On ErrSlotUnavailable nothing changes.
func (s *Scheduler) Book(ctx context.Context, patient Patient, physician directory.Physician, slot Slot) (*Appointment, error) {
	_, span := scheduleTracer.Start(ctx, "schedule.book")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("intake.physician_id", physician.ID),
		attribute.String("intake.slot_start", slot.Start.Format(time.RFC3339)),
	)

	cal := s.calendarFor(physician.ID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	if !cal.available(slot) {
		span.RecordError(ErrSlotUnavailable)
		return nil, ErrSlotUnavailable
	}
	cal.slots = append(cal.slots, slot)

	appt := &Appointment{
		ID:        uuid.NewString(),
		Patient:   patient,
		Physician: physician,
		Slot:      slot,
		CreatedAt: time.Now().UTC(),
	}
	s.logger.Info("appointment committed",
		"appointment_id", appt.ID,
		"physician_id", physician.ID,
		"slot", slot.String(),
	)
	return appt, nil
}

// BookedSlots returns a snapshot of the physician's committed slots. Used by
// tests and diagnostics; the returned slice is a copy.
func (s *Scheduler) BookedSlots(physicianID int64) []Slot {
	cal := s.calendarFor(physicianID)
	cal.mu.RLock()
	defer cal.mu.RUnlock()
	out := make([]Slot, len(cal.slots))
	copy(out, cal.slots)
	return out
}
