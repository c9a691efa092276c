// Package schedule is the authoritative model of committed appointments.
// It owns the slot, patient, and appointment types and the per-physician
// calendars that prevent double-booking.
package schedule

import (
	"fmt"
	"time"
)

// DefaultSlotDuration matches the standard appointment length.
const DefaultSlotDuration = 30 * time.Minute

// Slot is a half-open appointment interval [Start, End). It is a value type:
// two slots are the same slot iff their bounds are equal.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewSlot builds a slot starting at start. A non-positive duration falls back
// to the default.
func NewSlot(start time.Time, duration time.Duration) Slot {
	if duration <= 0 {
		duration = DefaultSlotDuration
	}
	return Slot{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two slots share any instant. Back-to-back slots
// that touch only at a boundary do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Equal reports whether both bounds coincide.
func (s Slot) Equal(other Slot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

// Duration returns the slot length.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// String renders the slot the way it is read back to a caller.
func (s Slot) String() string {
	return fmt.Sprintf("Start: %s - End: %s",
		s.Start.Format("2006-01-02 15:04"), s.End.Format("2006-01-02 15:04"))
}
