package schedule

import "errors"

var (
	// ErrSlotUnavailable is returned when a requested slot overlaps an
	// existing booking for the physician.
	ErrSlotUnavailable = errors.New("time slot not available")
)
