package schedule

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, time.March, 25, hour, minute, 0, 0, time.UTC)
}

func TestNewSlotDefaultDuration(t *testing.T) {
	start := mustTime(t, 10, 0)
	slot := NewSlot(start, 0)
	if slot.Duration() != DefaultSlotDuration {
		t.Fatalf("duration = %s, want %s", slot.Duration(), DefaultSlotDuration)
	}
	if !slot.End.Equal(start.Add(30 * time.Minute)) {
		t.Fatalf("end = %s, want %s", slot.End, start.Add(30*time.Minute))
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Slot
		want bool
	}{
		{
			name: "identical slots overlap",
			a:    NewSlot(mustTime(t, 10, 0), 30*time.Minute),
			b:    NewSlot(mustTime(t, 10, 0), 30*time.Minute),
			want: true,
		},
		{
			name: "partial overlap",
			a:    NewSlot(mustTime(t, 10, 0), 30*time.Minute),
			b:    NewSlot(mustTime(t, 10, 15), 30*time.Minute),
			want: true,
		},
		{
			name: "contained slot overlaps",
			a:    NewSlot(mustTime(t, 10, 0), time.Hour),
			b:    NewSlot(mustTime(t, 10, 15), 15*time.Minute),
			want: true,
		},
		{
			name: "back-to-back slots do not overlap",
			a:    NewSlot(mustTime(t, 10, 0), 30*time.Minute),
			b:    NewSlot(mustTime(t, 10, 30), 30*time.Minute),
			want: false,
		},
		{
			name: "disjoint slots do not overlap",
			a:    NewSlot(mustTime(t, 10, 0), 30*time.Minute),
			b:    NewSlot(mustTime(t, 14, 0), 30*time.Minute),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// The overlap relation is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlotEqual(t *testing.T) {
	a := NewSlot(mustTime(t, 10, 0), 30*time.Minute)
	b := NewSlot(mustTime(t, 10, 0), 30*time.Minute)
	c := NewSlot(mustTime(t, 10, 30), 30*time.Minute)
	if !a.Equal(b) {
		t.Error("expected slots with identical bounds to be equal")
	}
	if a.Equal(c) {
		t.Error("expected slots with different bounds to differ")
	}
}

func TestPatientMissingFields(t *testing.T) {
	p := &Patient{ID: "caller-1"}
	missing := p.MissingFields()
	if len(missing) != 6 {
		t.Fatalf("expected all 6 required fields missing, got %v", missing)
	}

	p.Name = "John Doe"
	p.DateOfBirth = "1995-10-07"
	p.Address = "12 Main St"
	p.Phone = "123-456-7890"
	p.PayerName = "Acme Health"
	p.PayerID = "A-1234"
	if missing = p.MissingFields(); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}

	// Optional fields never appear in the missing list.
	p.Email = ""
	p.MedicalComplaint = ""
	if missing = p.MissingFields(); len(missing) != 0 {
		t.Fatalf("optional fields reported missing: %v", missing)
	}
}
