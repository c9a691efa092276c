package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oakpoint-health/intake-scheduler/internal/directory"
)

var testPhysician = directory.Physician{ID: 101, Name: "Dr. Smith"}

func testPatient() Patient {
	return Patient{
		ID:          "caller-1",
		Name:        "John Doe",
		DateOfBirth: "1995-10-07",
		Phone:       "123-456-7890",
	}
}

func newTestScheduler() *Scheduler {
	return NewScheduler(DefaultWorkday(), nil)
}

func TestBookSuccess(t *testing.T) {
	s := newTestScheduler()
	slot := NewSlot(mustTime(t, 10, 0), 30*time.Minute)

	appt, err := s.Book(context.Background(), testPatient(), testPhysician, slot)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if appt.ID == "" {
		t.Error("expected an appointment id")
	}
	if appt.Physician.ID != testPhysician.ID {
		t.Errorf("physician id = %d, want %d", appt.Physician.ID, testPhysician.ID)
	}
	if !appt.Slot.Equal(slot) {
		t.Errorf("slot = %v, want %v", appt.Slot, slot)
	}
	if s.IsAvailable(testPhysician.ID, slot) {
		t.Error("booked slot still reported available")
	}
}

func TestBookConflict(t *testing.T) {
	s := newTestScheduler()
	first := NewSlot(mustTime(t, 10, 0), 30*time.Minute)
	overlapping := NewSlot(mustTime(t, 10, 15), 30*time.Minute)

	if _, err := s.Book(context.Background(), testPatient(), testPhysician, first); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := s.Book(context.Background(), testPatient(), testPhysician, overlapping)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if got := len(s.BookedSlots(testPhysician.ID)); got != 1 {
		t.Fatalf("failed booking mutated state: %d slots committed", got)
	}
}

func TestBackToBackSlotsBothBookable(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	if _, err := s.Book(ctx, testPatient(), testPhysician, NewSlot(mustTime(t, 10, 0), 30*time.Minute)); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := s.Book(ctx, testPatient(), testPhysician, NewSlot(mustTime(t, 10, 30), 30*time.Minute)); err != nil {
		t.Fatalf("adjacent booking failed: %v", err)
	}
}

func TestIsAvailableEmptyCalendar(t *testing.T) {
	s := newTestScheduler()
	if !s.IsAvailable(999, NewSlot(mustTime(t, 8, 0), 30*time.Minute)) {
		t.Fatal("physician with no appointments must always be available")
	}
}

func TestAvailableSlotsFullDay(t *testing.T) {
	s := newTestScheduler()
	date := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

	slots := s.AvailableSlots(testPhysician.ID, date)
	// 08:00-17:00 tiles into 18 half-hour slots.
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	if slots[0].Start.Hour() != 8 || slots[0].Start.Minute() != 0 {
		t.Errorf("first slot starts %s, want 08:00", slots[0].Start.Format("15:04"))
	}
	last := slots[len(slots)-1]
	if last.Start.Hour() != 16 || last.Start.Minute() != 30 {
		t.Errorf("last slot starts %s, want 16:30", last.Start.Format("15:04"))
	}
	if last.End.Hour() != 17 || last.End.Minute() != 0 {
		t.Errorf("last slot ends %s, want 17:00", last.End.Format("15:04"))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i].Start.Equal(slots[i-1].End) {
			t.Fatalf("slots not back-to-back at index %d", i)
		}
	}
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	s := newTestScheduler()
	date := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)
	booked := NewSlot(mustTime(t, 10, 0), 30*time.Minute)

	if _, err := s.Book(context.Background(), testPatient(), testPhysician, booked); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	slots := s.AvailableSlots(testPhysician.ID, date)
	if len(slots) != 17 {
		t.Fatalf("expected 17 remaining slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.Equal(booked) {
			t.Fatalf("booked slot %v still enumerated", slot)
		}
	}
}

func TestAvailableSlotsOddWindowDropsPartialSlot(t *testing.T) {
	s := NewScheduler(Workday{StartHour: 8, EndHour: 17, SlotDuration: 50 * time.Minute}, nil)
	date := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

	slots := s.AvailableSlots(testPhysician.ID, date)
	// 9 hours / 50 minutes: the 11th slot would spill past 17:00.
	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d", len(slots))
	}
	dayEnd := time.Date(2025, time.March, 25, 17, 0, 0, 0, time.UTC)
	if slots[len(slots)-1].End.After(dayEnd) {
		t.Fatalf("last slot %v spills past workday end", slots[len(slots)-1])
	}
}

// Overlap invariant: no pair of committed slots for one physician may overlap,
// no matter how bookings interleave.
func TestOverlapInvariantUnderConcurrency(t *testing.T) {
	s := newTestScheduler()
	date := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)
	candidates := s.AvailableSlots(testPhysician.ID, date)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, slot := range candidates {
				s.Book(context.Background(), testPatient(), testPhysician, slot) //nolint:errcheck
			}
		}()
	}
	wg.Wait()

	committed := s.BookedSlots(testPhysician.ID)
	if len(committed) != len(candidates) {
		t.Fatalf("expected %d committed slots, got %d", len(candidates), len(committed))
	}
	for i := range committed {
		for j := i + 1; j < len(committed); j++ {
			if committed[i].Overlaps(committed[j]) {
				t.Fatalf("overlap invariant broken: %v overlaps %v", committed[i], committed[j])
			}
		}
	}
}

// Two concurrent bookings of the same slot: exactly one wins.
func TestConcurrentSameSlotRace(t *testing.T) {
	for round := 0; round < 20; round++ {
		s := newTestScheduler()
		slot := NewSlot(mustTime(t, 10, 0), 30*time.Minute)

		results := make(chan error, 2)
		start := make(chan struct{})
		for i := 0; i < 2; i++ {
			go func() {
				<-start
				_, err := s.Book(context.Background(), testPatient(), testPhysician, slot)
				results <- err
			}()
		}
		close(start)

		var successes, conflicts int
		for i := 0; i < 2; i++ {
			switch err := <-results; {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if successes != 1 || conflicts != 1 {
			t.Fatalf("round %d: successes=%d conflicts=%d, want exactly one of each", round, successes, conflicts)
		}
	}
}

// Different physicians never contend: parallel bookings of the same wall-clock
// slot all succeed.
func TestCrossPhysicianIndependence(t *testing.T) {
	s := newTestScheduler()
	slot := NewSlot(mustTime(t, 10, 0), 30*time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for id := int64(1); id <= 10; id++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := s.Book(context.Background(), testPatient(), directory.Physician{ID: id, Name: "Dr. X"}, slot)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("cross-physician booking failed: %v", err)
		}
	}
}
