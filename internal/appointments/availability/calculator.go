package availability

import (
	"fmt"

	"carebook/pkg/model"
)

// Slot is one bookable interval, half-open [Start, End), both "HH:MM".
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slots enumerates the doctor's free slots on date given the already
// booked appointments for that day. Generation walks the working-hours
// window in slot-duration steps; a candidate whose end would cross the
// window end is not emitted. Booked intervals knock out every
// overlapping candidate.
func Slots(doctor *model.Doctor, date string, booked []*model.Appointment) ([]Slot, error) {
	weekday, err := model.WeekdayOf(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	hours, ok := doctor.WorkingHours[weekday]
	if !ok {
		// Non-working day: empty schedule, not an error.
		return []Slot{}, nil
	}

	slots := []Slot{}
	for start := hours.Start; ; {
		end, err := AddMinutes(start, doctor.SlotDurationMin)
		if err != nil {
			return nil, err
		}
		if end > hours.End {
			break
		}

		if !intervalBooked(start, end, booked) {
			slots = append(slots, Slot{Start: start, End: end})
		}

		if end == hours.End {
			break
		}
		start = end
	}

	return slots, nil
}

// Overlaps reports whether two half-open [start, end) intervals on the
// same day intersect. Back-to-back intervals do not overlap.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

func intervalBooked(start, end string, booked []*model.Appointment) bool {
	for _, a := range booked {
		if Overlaps(start, end, a.StartTime, a.EndTime) {
			return true
		}
	}
	return false
}

// WithinWorkingHours reports whether [start, end) fits inside the
// doctor's working window on the date's weekday and lands on a slot
// boundary.
func WithinWorkingHours(doctor *model.Doctor, date, start, end string) (bool, error) {
	weekday, err := model.WeekdayOf(date)
	if err != nil {
		return false, fmt.Errorf("invalid date %q: %w", date, err)
	}

	hours, ok := doctor.WorkingHours[weekday]
	if !ok {
		return false, nil
	}

	if start < hours.Start || end > hours.End {
		return false, nil
	}

	startMin, err := minutesOf(start)
	if err != nil {
		return false, err
	}
	windowMin, err := minutesOf(hours.Start)
	if err != nil {
		return false, err
	}
	if (startMin-windowMin)%doctor.SlotDurationMin != 0 {
		return false, nil
	}

	return true, nil
}

// AddMinutes advances an "HH:MM" time by n minutes, staying within one
// day. Crossing midnight is an error: appointments never span days.
func AddMinutes(clock string, n int) (string, error) {
	minutes, err := minutesOf(clock)
	if err != nil {
		return "", err
	}
	minutes += n
	if minutes > 24*60 {
		return "", fmt.Errorf("time %s + %d minutes crosses midnight", clock, n)
	}
	if minutes == 24*60 {
		return "24:00", nil
	}
	return clockOf(minutes), nil
}

func minutesOf(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return h*60 + m, nil
}

func clockOf(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
