package schedule

import (
	"fmt"
	"time"
)

// TimeRange is a day-local working window expressed as "HH:MM" wall clock
// values, e.g. {"09:00", "13:00"}.
type TimeRange struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DayAvailability holds the working ranges for one day of week
// (0 = Sunday ... 6 = Saturday).
type DayAvailability struct {
	DayOfWeek  int         `json:"dayOfWeek"`
	TimeRanges []TimeRange `json:"timeRanges"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// windows (one ending exactly when the other starts) do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// HasConflict reports whether w overlaps any of the existing windows.
func HasConflict(w Window, existing []Window) bool {
	for _, e := range existing {
		if Overlaps(w, e) {
			return true
		}
	}
	return false
}

// ParseClock parses a "HH:MM" wall clock value.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func at(date time.Time, hour, minute int) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

// SlotsForDate produces the candidate slot windows for one calendar date.
// The date's UTC weekday selects the matching DayAvailability entry; no
// entry means no slots. Each range is walked from its start in fixed steps
// of slotDuration, and a trailing slot that would run past the range end is
// dropped, not truncated. Ranges are processed in declaration order and are
// not deduplicated, so overlapping ranges can emit overlapping candidates.
func SlotsForDate(date time.Time, days []DayAvailability, slotDuration time.Duration) ([]Window, error) {
	if slotDuration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %s", slotDuration)
	}

	dayOfWeek := int(date.UTC().Weekday())
	var day *DayAvailability
	for i := range days {
		if days[i].DayOfWeek == dayOfWeek {
			day = &days[i]
			break
		}
	}
	if day == nil {
		return nil, nil
	}

	var slots []Window
	for _, tr := range day.TimeRanges {
		sh, sm, err := ParseClock(tr.StartTime)
		if err != nil {
			return nil, err
		}
		eh, em, err := ParseClock(tr.EndTime)
		if err != nil {
			return nil, err
		}

		slotStart := at(date, sh, sm)
		rangeEnd := at(date, eh, em)
		for {
			slotEnd := slotStart.Add(slotDuration)
			if slotEnd.After(rangeEnd) {
				break
			}
			slots = append(slots, Window{Start: slotStart, End: slotEnd})
			slotStart = slotEnd
		}
	}
	return slots, nil
}

// DayRange returns the UTC calendar day bounds containing t,
// [00:00:00.000, 23:59:59.999].
func DayRange(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
