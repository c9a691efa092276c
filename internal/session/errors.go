package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oakpoint-health/intake-scheduler/internal/schedule"
)

var (
	// ErrPhysicianNotFound is returned when a spoken name matches no roster
	// entry above the similarity threshold.
	ErrPhysicianNotFound = errors.New("physician is not in the system")

	// ErrPhysicianNotSelected is returned when a slot operation is attempted
	// before a physician has been chosen.
	ErrPhysicianNotSelected = errors.New("physician name has not been provided")

	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionEnded is returned when an operation is attempted on a
	// terminated session.
	ErrSessionEnded = errors.New("session has ended")

	// ErrInvalidDateTime is returned for out-of-range day/month/hour/minute
	// input.
	ErrInvalidDateTime = errors.New("invalid date or time")
)

// MissingFieldsError reports every item still required before booking, so the
// driver can ask for all of them in one turn.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required booking data: %s", strings.Join(e.Fields, ", "))
}

// SlotUnavailableError carries the free slots for the requested date so the
// driver can offer concrete alternatives.
type SlotUnavailableError struct {
	PhysicianName string
	Requested     schedule.Slot
	Date          time.Time
	Alternatives  []schedule.Slot
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("time slot starting %s is not available for physician %s",
		e.Requested.Start.Format("2006-01-02 15:04"), e.PhysicianName)
}

// Unwrap lets callers match with errors.Is(err, schedule.ErrSlotUnavailable).
func (e *SlotUnavailableError) Unwrap() error {
	return schedule.ErrSlotUnavailable
}
