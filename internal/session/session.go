// Package session implements the per-caller booking state machine. A session
// accumulates patient fields, a physician, and a time slot, and commits the
// booking through the shared scheduler once everything required is present.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakpoint-health/intake-scheduler/internal/directory"
	"github.com/oakpoint-health/intake-scheduler/internal/events"
	"github.com/oakpoint-health/intake-scheduler/internal/observability/metrics"
	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
	"github.com/oakpoint-health/intake-scheduler/pkg/logging"
)

var sessionTracer = otel.Tracer("intake.internal.session")

// State is the lifecycle position of a booking session.
type State string

const (
	// StateCollecting is the initial state: patient data is being gathered.
	StateCollecting State = "collecting"
	// StatePhysicianPending marks a session whose driver attempted a slot
	// operation before choosing a physician.
	StatePhysicianPending State = "physician_pending"
	// StateSlotPending marks a session with a physician chosen, working
	// through slot selection.
	StateSlotPending State = "slot_pending"
	// StateConfirmed marks a session that passed the full readiness check.
	StateConfirmed State = "confirmed"
	// StateBooked is terminal: the appointment is committed.
	StateBooked State = "booked"
	// StateAbandoned is terminal: the interaction ended without booking.
	StateAbandoned State = "abandoned"
)

// terminal reports whether no further mutation is allowed.
func (s State) terminal() bool {
	return s == StateBooked || s == StateAbandoned
}

// Notifier receives the booking-completed event. Delivery is out-of-band;
// its outcome never affects the booking.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, evt events.BookingConfirmedV1) error
}

// PatientUpdate carries the fields to overwrite on the session's patient.
// Nil pointers leave the current value untouched; set pointers win, even when
// a field was already set (last value wins).
type PatientUpdate struct {
	Name             *string `json:"name,omitempty"`
	DateOfBirth      *string `json:"dob,omitempty"`
	Address          *string `json:"address,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	PayerName        *string `json:"payer_name,omitempty"`
	PayerID          *string `json:"payer_id,omitempty"`
	Email            *string `json:"email,omitempty"`
	MedicalComplaint *string `json:"medical_complaint,omitempty"`
	HasReferral      *bool   `json:"has_referral,omitempty"`
}

// Session is one caller's in-progress booking interaction. The external
// driver invokes its operations sequentially; the mutex only protects against
// a racing End (e.g. a disconnect handler).
type Session struct {
	id       string
	dir      *directory.Directory
	sched    *schedule.Scheduler
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	loc      *time.Location
	now      func() time.Time

	mu          sync.Mutex
	state       State
	patient     schedule.Patient
	physician   *directory.Physician
	slot        *schedule.Slot
	appointment *schedule.Appointment
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Patient returns a copy of the accumulated patient record.
func (s *Session) Patient() schedule.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patient
}

// Physician returns the selected physician, if any.
func (s *Session) Physician() (directory.Physician, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.physician == nil {
		return directory.Physician{}, false
	}
	return *s.physician, true
}

// Slot returns the selected slot, if any.
func (s *Session) Slot() (schedule.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slot == nil {
		return schedule.Slot{}, false
	}
	return *s.slot, true
}

// Appointment returns the committed appointment after a successful Book.
func (s *Session) Appointment() (*schedule.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointment, s.appointment != nil
}

// SetPatientFields overwrites the given patient fields. It never transitions
// the state machine.
func (s *Session) SetPatientFields(update PatientUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return ErrSessionEnded
	}
	if update.Name != nil {
		s.patient.Name = *update.Name
	}
	if update.DateOfBirth != nil {
		s.patient.DateOfBirth = *update.DateOfBirth
	}
	if update.Address != nil {
		s.patient.Address = *update.Address
	}
	if update.Phone != nil {
		s.patient.Phone = *update.Phone
	}
	if update.PayerName != nil {
		s.patient.PayerName = *update.PayerName
	}
	if update.PayerID != nil {
		s.patient.PayerID = *update.PayerID
	}
	if update.Email != nil {
		s.patient.Email = *update.Email
	}
	if update.MedicalComplaint != nil {
		s.patient.MedicalComplaint = *update.MedicalComplaint
	}
	if update.HasReferral != nil {
		v := *update.HasReferral
		s.patient.HasReferral = &v
	}
	return nil
}

// SelectPhysician resolves a spoken name against the roster and records the
// match. A failed resolution leaves the session untouched so the driver can
// re-prompt.
func (s *Session) SelectPhysician(spokenName string) (directory.Physician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return directory.Physician{}, ErrSessionEnded
	}
	physician, ok := s.dir.Resolve(spokenName)
	if !ok {
		s.logger.Info("physician not resolved", "session_id", s.id, "spoken_name", spokenName)
		return directory.Physician{}, ErrPhysicianNotFound
	}
	s.physician = &physician
	if s.state == StateCollecting || s.state == StatePhysicianPending {
		s.state = StateSlotPending
	}
	s.logger.Info("physician selected", "session_id", s.id, "physician_id", physician.ID, "physician_name", physician.Name)
	return physician, nil
}

// slotAt builds the slot for the given calendar position in the current year.
// Callers hold the session mutex.
func (s *Session) slotAt(day, month, hour, minute int) (schedule.Slot, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return schedule.Slot{}, ErrInvalidDateTime
	}
	start := time.Date(s.now().Year(), time.Month(month), day, hour, minute, 0, 0, s.loc)
	return schedule.NewSlot(start, s.sched.Workday().SlotDuration), nil
}

// requirePhysician enforces physician-first ordering for slot operations.
// Callers hold the session mutex.
func (s *Session) requirePhysician() error {
	if s.physician != nil {
		return nil
	}
	if s.state == StateCollecting {
		s.state = StatePhysicianPending
	}
	return ErrPhysicianNotSelected
}

// CheckSlot is a non-mutating availability probe for the given date and time.
func (s *Session) CheckSlot(day, month, hour, minute int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return false, ErrSessionEnded
	}
	if err := s.requirePhysician(); err != nil {
		return false, err
	}
	slot, err := s.slotAt(day, month, hour, minute)
	if err != nil {
		return false, err
	}
	s.metrics.ObserveSlotQuery()
	return s.sched.IsAvailable(s.physician.ID, slot), nil
}

// AvailableSlots lists the free slots for the selected physician on the given
// date of the current year.
func (s *Session) AvailableSlots(day, month int) ([]schedule.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return nil, ErrSessionEnded
	}
	if err := s.requirePhysician(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil, ErrInvalidDateTime
	}
	date := time.Date(s.now().Year(), time.Month(month), day, 0, 0, 0, 0, s.loc)
	s.metrics.ObserveSlotQuery()
	return s.sched.AvailableSlots(s.physician.ID, date), nil
}

// SelectSlot records the caller's preferred slot. When the slot is taken the
// returned error carries the free slots for that date so the driver can offer
// alternatives.
func (s *Session) SelectSlot(day, month, hour, minute int) (schedule.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return schedule.Slot{}, ErrSessionEnded
	}
	if err := s.requirePhysician(); err != nil {
		return schedule.Slot{}, err
	}
	slot, err := s.slotAt(day, month, hour, minute)
	if err != nil {
		return schedule.Slot{}, err
	}
	if !s.sched.IsAvailable(s.physician.ID, slot) {
		return schedule.Slot{}, s.slotUnavailable(slot)
	}
	s.slot = &slot
	s.logger.Info("slot selected", "session_id", s.id, "physician_id", s.physician.ID, "slot", slot.String())
	return slot, nil
}

// slotUnavailable builds the structured rejection with current alternatives.
// Callers hold the session mutex and have a physician selected.
func (s *Session) slotUnavailable(requested schedule.Slot) error {
	date := time.Date(requested.Start.Year(), requested.Start.Month(), requested.Start.Day(), 0, 0, 0, 0, requested.Start.Location())
	return &SlotUnavailableError{
		PhysicianName: s.physician.Name,
		Requested:     requested,
		Date:          date,
		Alternatives:  s.sched.AvailableSlots(s.physician.ID, date),
	}
}

// missing enumerates everything still required before booking. Callers hold
// the session mutex.
func (s *Session) missing() []string {
	items := s.patient.MissingFields()
	if s.physician == nil {
		items = append(items, "physician")
	}
	if s.slot == nil {
		items = append(items, "timeslot")
	}
	return items
}

// Confirm validates that every required patient field, the physician, and the
// slot are present. All missing items are reported in one response.
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return ErrSessionEnded
	}
	if items := s.missing(); len(items) > 0 {
		return &MissingFieldsError{Fields: items}
	}
	if s.state != StateConfirmed {
		s.state = StateConfirmed
	}
	return nil
}

// Book re-runs the full readiness validation, re-checks availability, and
// commits through the scheduler. Failure leaves no partial state, so the
// driver may retry after fixing the reported problem. A second call on an
// already-booked session returns the committed appointment unchanged.
func (s *Session) Book(ctx context.Context) (*schedule.Appointment, error) {
	ctx, span := sessionTracer.Start(ctx, "session.book")
	defer span.End()
	span.SetAttributes(attribute.String("intake.session_id", s.id))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateBooked {
		return s.appointment, nil
	}
	if s.state == StateAbandoned {
		return nil, ErrSessionEnded
	}
	if items := s.missing(); len(items) > 0 {
		s.metrics.ObserveBooking("rejected", "missing_fields")
		return nil, &MissingFieldsError{Fields: items}
	}

	start := time.Now()
	appt, err := s.sched.Book(ctx, s.patient, *s.physician, *s.slot)
	s.metrics.ObserveBookLatency(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("rejected", "slot_unavailable")
		// Availability drifted since SelectSlot; hand back fresh options.
		return nil, s.slotUnavailable(*s.slot)
	}

	s.appointment = appt
	s.state = StateBooked
	s.metrics.ObserveBooking("committed", "")
	s.logger.Info("booking completed", "session_id", s.id, "appointment_id", appt.ID)

	s.emitConfirmation(ctx, appt)
	return appt, nil
}

// emitConfirmation hands the booking-completed event to the notifier without
// blocking the commit on delivery. Callers hold the session mutex.
func (s *Session) emitConfirmation(ctx context.Context, appt *schedule.Appointment) {
	if s.notifier == nil {
		return
	}
	evt := events.BookingConfirmedV1{
		EventID:         uuid.NewString(),
		SessionID:       s.id,
		AppointmentID:   appt.ID,
		PhysicianName:   appt.Physician.Name,
		PatientName:     appt.Patient.Name,
		SlotDescription: appt.Slot.String(),
		SlotStart:       appt.Slot.Start,
		SlotEnd:         appt.Slot.End,
		BookedAt:        appt.CreatedAt,
	}
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(notifyCtx, 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyBookingConfirmed(sendCtx, evt); err != nil {
			s.logger.Error("booking confirmation delivery failed", "error", err, "session_id", evt.SessionID, "appointment_id", evt.AppointmentID)
			s.metrics.ObserveNotification("failed")
			return
		}
		s.metrics.ObserveNotification("sent")
	}()
}

// End terminates the interaction: Booked stays Booked, everything else
// becomes Abandoned. Ending never undoes a committed appointment.
func (s *Session) End() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.terminal() {
		s.state = StateAbandoned
	}
	s.metrics.ObserveSessionEnd(string(s.state))
	s.logger.Info("session ended", "session_id", s.id, "state", string(s.state))
	return s.state
}
