package schedule

import (
	"errors"
	"strings"
	"time"
)

// Day of week constants
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// ValidDays contains all valid day values.
var ValidDays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Domain errors
var (
	ErrEmptyCenterID  = errors.New("schedule item must belong to a center")
	ErrEmptyName      = errors.New("schedule item name cannot be empty")
	ErrInvalidDay     = errors.New("day must be a valid day of the week")
	ErrInvalidTime    = errors.New("start and end times must be in HH:MM format")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrOverlap        = errors.New("schedule item overlaps an existing item for this center and day")
)

// Item represents a recurring weekly program slot ("dagskrárliður") at a
// center. Check-ins are associated with the item active at submission time.
type Item struct {
	ID        string
	CenterID  string
	Day       string // monday, tuesday, etc.
	Name      string // e.g. "Opið hús", "Bíókvöld"
	StartTime string // HH:MM format
	EndTime   string // HH:MM format
	Category  string
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.CenterID) == "" {
		return ErrEmptyCenterID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !isValidDay(i.Day) {
		return ErrInvalidDay
	}
	start, err := parseClock(i.StartTime)
	if err != nil {
		return ErrInvalidTime
	}
	end, err := parseClock(i.EndTime)
	if err != nil {
		return ErrInvalidTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// ContainsTime reports whether the clock time falls within [start, end],
// inclusive at both ends.
// PRE: Item has been validated; clock is HH:MM
// POST: Returns true when clock is inside the window
func (i *Item) ContainsTime(clock string) bool {
	t, err := parseClock(clock)
	if err != nil {
		return false
	}
	start, err1 := parseClock(i.StartTime)
	end, err2 := parseClock(i.EndTime)
	if err1 != nil || err2 != nil {
		return false
	}
	return !t.Before(start) && !t.After(end)
}

// Overlaps reports whether two items share any part of their time window
// on the same center and day. Windows touching only at an endpoint
// (one ends 16:00, the next starts 16:00) do not overlap.
// INVARIANT: Item fields are not mutated
func (i *Item) Overlaps(other *Item) bool {
	if i.CenterID != other.CenterID || i.Day != other.Day {
		return false
	}
	aStart, err1 := parseClock(i.StartTime)
	aEnd, err2 := parseClock(i.EndTime)
	bStart, err3 := parseClock(other.StartTime)
	bEnd, err4 := parseClock(other.EndTime)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DayOf returns the canonical weekday value for a timestamp.
func DayOf(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

func parseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}

func isValidDay(day string) bool {
	for _, d := range ValidDays {
		if d == day {
			return true
		}
	}
	return false
}
