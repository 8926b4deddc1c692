package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical time format: minute precision, no zone suffix,
// always interpreted as UTC.
const Layout = "2006-01-02 15:04"

var (
	// ErrInvalidSelection is returned for dates that do not exist on the
	// calendar (for example 2025-02-30) or out-of-range clock values.
	ErrInvalidSelection = errors.New("schedule: invalid date/time selection")
	// ErrOutOfRange is returned for selections outside the bookable window.
	ErrOutOfRange = errors.New("schedule: selection outside 2025-01-01 to 2100-12-31")
	// ErrInvalidCanonical is returned when a stored time is not in Layout form.
	ErrInvalidCanonical = errors.New("schedule: time is not in YYYY-MM-DD HH:MM form")
)

var (
	minSelectable = Selection{Year: 2025, Month: 1, Day: 1, Hour: 0, Minute: 0}
	maxSelectable = Selection{Year: 2100, Month: 12, Day: 31, Hour: 23, Minute: 59}
)

// Selection is a wall-clock date/time picked by the operator in their own zone.
type Selection struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// String renders the selection in Layout form without any zone conversion.
func (s Selection) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", s.Year, s.Month, s.Day, s.Hour, s.Minute)
}

func (s Selection) before(other Selection) bool {
	return s.String() < other.String()
}

func (s Selection) validate() error {
	if s.Month < 1 || s.Month > 12 || s.Day < 1 || s.Day > 31 ||
		s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, s)
	}
	probe := time.Date(s.Year, time.Month(s.Month), s.Day, 0, 0, 0, 0, time.UTC)
	if probe.Day() != s.Day || int(probe.Month()) != s.Month {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, s)
	}
	if s.before(minSelectable) || maxSelectable.before(s) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, s)
	}
	return nil
}

// Normalize interprets the selection as wall-clock time in loc (time.Local
// when nil) and returns the canonical UTC string for that instant. Seconds are
// never carried.
func Normalize(sel Selection, loc *time.Location) (string, error) {
	if err := sel.validate(); err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.Local
	}
	local := time.Date(sel.Year, time.Month(sel.Month), sel.Day, sel.Hour, sel.Minute, 0, 0, loc)
	return FormatCanonical(local), nil
}

// ParseLocal parses "YYYY-MM-DD HH:MM" typed by an operator into a Selection.
// The zone is not applied here; pass the result to Normalize.
func ParseLocal(raw string) (Selection, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := time.Parse(Layout, trimmed)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	sel := Selection{
		Year:   parsed.Year(),
		Month:  int(parsed.Month()),
		Day:    parsed.Day(),
		Hour:   parsed.Hour(),
		Minute: parsed.Minute(),
	}
	if err := sel.validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// FormatCanonical renders t in UTC using Layout, truncated to the minute.
func FormatCanonical(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format(Layout)
}

// ParseCanonical parses a stored canonical string as a UTC instant.
func ParseCanonical(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(Layout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCanonical, raw)
	}
	return parsed, nil
}

// EndMinimum returns the earliest end time a picker should offer once start
// is chosen: one minute after start, so a window can never be empty.
func EndMinimum(start string) (string, error) {
	parsed, err := ParseCanonical(start)
	if err != nil {
		return "", err
	}
	return FormatCanonical(parsed.Add(time.Minute)), nil
}
