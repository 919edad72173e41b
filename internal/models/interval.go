package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday indexes days Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

// Spanish aliases cover the day names used by the normalized schedule CSVs,
// with and without accents.
var weekdayIndex = map[string]Weekday{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
	"SATURDAY":  Saturday,
	"SUNDAY":    Sunday,
	"LUNES":     Monday,
	"MARTES":    Tuesday,
	"MIÉRCOLES": Wednesday,
	"MIERCOLES": Wednesday,
	"JUEVES":    Thursday,
	"VIERNES":   Friday,
	"SÁBADO":    Saturday,
	"SABADO":    Saturday,
	"DOMINGO":   Sunday,
}

// String returns the upper-case English day name.
func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAY(%d)", int(d))
}

// Valid reports whether the day is within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseWeekday resolves an English or Spanish day name, case-insensitively.
func ParseWeekday(name string) (Weekday, error) {
	if day, ok := weekdayIndex[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// TimeInterval is a day plus a half-open [Start, End) minute range.
type TimeInterval struct {
	Day   Weekday `json:"day"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// NewTimeInterval validates start < end before constructing the interval.
func NewTimeInterval(day Weekday, start, end int) (TimeInterval, error) {
	if !day.Valid() {
		return TimeInterval{}, fmt.Errorf("invalid weekday %d", day)
	}
	if start >= end {
		return TimeInterval{}, fmt.Errorf("interval start %s must precede end %s", FormatClock(start), FormatClock(end))
	}
	return TimeInterval{Day: day, Start: start, End: end}, nil
}

// Overlaps reports whether two intervals collide on the same day.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	if t.Day != other.Day {
		return false
	}
	return t.Start < other.End && other.Start < t.End
}

// String renders the interval as "MONDAY 07:00-09:00".
func (t TimeInterval) String() string {
	return fmt.Sprintf("%s %s-%s", t.Day, FormatClock(t.Start), FormatClock(t.End))
}
