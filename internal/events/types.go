// Package events defines the versioned domain events emitted by the booking
// core. Payloads are plain structs so collaborators can consume them without
// importing scheduling internals.
package events

import "time"

// BookingConfirmedV1 is emitted once per successful booking commit.
type BookingConfirmedV1 struct {
	EventID         string    `json:"event_id"`
	SessionID       string    `json:"session_id"`
	AppointmentID   string    `json:"appointment_id"`
	PhysicianName   string    `json:"physician_name"`
	PatientName     string    `json:"patient_name"`
	SlotDescription string    `json:"slot_description"`
	SlotStart       time.Time `json:"slot_start"`
	SlotEnd         time.Time `json:"slot_end"`
	BookedAt        time.Time `json:"booked_at"`
}
