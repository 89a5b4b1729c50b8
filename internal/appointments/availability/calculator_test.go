package availability

import (
	"reflect"
	"testing"

	"carebook/pkg/model"
)

// 2026-01-05 is a Monday.
const monday = "2026-01-05"

func testDoctor(slotMin int) *model.Doctor {
	return &model.Doctor{
		ID:   "507f1f77bcf86cd799439011",
		Name: "Dr. Sarah Cohen",
		WorkingHours: map[model.Weekday]model.DayHours{
			model.Monday: {Start: "09:00", End: "12:00"},
		},
		SlotDurationMin: slotMin,
		IsAvailable:     true,
	}
}

func booked(start, end string) *model.Appointment {
	return &model.Appointment{
		DoctorID:  "507f1f77bcf86cd799439011",
		Date:      monday,
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusScheduled,
	}
}

func TestSlots_EmptyDay(t *testing.T) {
	slots, err := Slots(testDoctor(30), monday, nil)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	want := []Slot{
		{"09:00", "09:30"},
		{"09:30", "10:00"},
		{"10:00", "10:30"},
		{"10:30", "11:00"},
		{"11:00", "11:30"},
		{"11:30", "12:00"},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("Slots() = %v, want %v", slots, want)
	}
}

func TestSlots_BookedSlotExcluded(t *testing.T) {
	existing := []*model.Appointment{booked("10:00", "10:30")}

	slots, err := Slots(testDoctor(30), monday, existing)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d: %v", len(slots), slots)
	}
	for _, s := range slots {
		if s.Start == "10:00" {
			t.Errorf("booked slot 10:00 still listed")
		}
	}
}

func TestSlots_OverlappingBookingKnocksOutBothCandidates(t *testing.T) {
	// A 10:15-10:45 booking (e.g. from an older schedule with a
	// different slot grid) blocks both the 10:00 and 10:30 candidates.
	existing := []*model.Appointment{booked("10:15", "10:45")}

	slots, err := Slots(testDoctor(30), monday, existing)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	for _, s := range slots {
		if s.Start == "10:00" || s.Start == "10:30" {
			t.Errorf("slot %v overlaps existing booking", s)
		}
	}
	if len(slots) != 4 {
		t.Errorf("expected 4 slots, got %d: %v", len(slots), slots)
	}
}

func TestSlots_BackToBackBookingDoesNotBlockNeighbor(t *testing.T) {
	existing := []*model.Appointment{booked("09:00", "09:30")}

	slots, err := Slots(testDoctor(30), monday, existing)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	if len(slots) == 0 || slots[0].Start != "09:30" {
		t.Errorf("expected first free slot 09:30, got %v", slots)
	}
}

func TestSlots_LastSlotEndsExactlyAtWindowEnd(t *testing.T) {
	// 09:00-12:00 with 45-minute slots: 09:00, 09:45, 10:30 fit;
	// 11:15+45 = 12:00 fits exactly; nothing after.
	slots, err := Slots(testDoctor(45), monday, nil)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	want := []Slot{
		{"09:00", "09:45"},
		{"09:45", "10:30"},
		{"10:30", "11:15"},
		{"11:15", "12:00"},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("Slots() = %v, want %v", slots, want)
	}
}

func TestSlots_PartialTrailingWindowDropped(t *testing.T) {
	doctor := testDoctor(50)
	// 09:00-12:00 with 50-minute slots: 09:00, 09:50, 10:40 fit; the
	// 11:30 candidate would end 12:20, past the window.
	slots, err := Slots(doctor, monday, nil)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d: %v", len(slots), slots)
	}
	last := slots[len(slots)-1]
	if last.End > "12:00" {
		t.Errorf("last slot %v exceeds working hours", last)
	}
}

func TestSlots_NonWorkingDay(t *testing.T) {
	// 2026-01-06 is a Tuesday; the test doctor only works Mondays.
	slots, err := Slots(testDoctor(30), "2026-01-06", nil)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on a non-working day, got %v", slots)
	}
}

func TestSlots_FullyBookedDay(t *testing.T) {
	existing := []*model.Appointment{
		booked("09:00", "09:30"),
		booked("09:30", "10:00"),
		booked("10:00", "10:30"),
		booked("10:30", "11:00"),
		booked("11:00", "11:30"),
		booked("11:30", "12:00"),
	}

	slots, err := Slots(testDoctor(30), monday, existing)
	if err != nil {
		t.Fatalf("Slots() error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected fully booked day, got %v", slots)
	}
}

func TestSlots_InvalidDate(t *testing.T) {
	if _, err := Slots(testDoctor(30), "05-01-2026", nil); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "10:00", "10:30", "10:00", "10:30", true},
		{"contained", "10:00", "11:00", "10:15", "10:45", true},
		{"partial left", "10:00", "10:30", "10:15", "10:45", true},
		{"partial right", "10:15", "10:45", "10:00", "10:30", true},
		{"back to back", "10:00", "10:30", "10:30", "11:00", false},
		{"disjoint", "09:00", "09:30", "10:00", "10:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
		})
	}
}

func TestWithinWorkingHours(t *testing.T) {
	doctor := testDoctor(30)

	tests := []struct {
		name       string
		date       string
		start, end string
		want       bool
	}{
		{"first slot", monday, "09:00", "09:30", true},
		{"last slot", monday, "11:30", "12:00", true},
		{"before opening", monday, "08:30", "09:00", false},
		{"past closing", monday, "11:45", "12:15", false},
		{"off grid", monday, "09:10", "09:40", false},
		{"non-working day", "2026-01-06", "09:00", "09:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithinWorkingHours(doctor, tt.date, tt.start, tt.end)
			if err != nil {
				t.Fatalf("WithinWorkingHours() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WithinWorkingHours(%s %s-%s) = %v, want %v", tt.date, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		n       int
		want    string
		wantErr bool
	}{
		{"09:00", 30, "09:30", false},
		{"09:45", 30, "10:15", false},
		{"23:30", 30, "24:00", false},
		{"23:45", 30, "", true},
		{"bogus", 0, "", true},
	}

	for _, tt := range tests {
		got, err := AddMinutes(tt.clock, tt.n)
		if tt.wantErr {
			if err == nil {
				t.Errorf("AddMinutes(%q, %d) expected error", tt.clock, tt.n)
			}
			continue
		}
		if err != nil {
			t.Errorf("AddMinutes(%q, %d) error: %v", tt.clock, tt.n, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.clock, tt.n, got, tt.want)
		}
	}
}
