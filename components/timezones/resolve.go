package timezones

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownZone is returned by Resolve for names the runtime cannot load.
var ErrUnknownZone = errors.New("timezones: unknown zone")

// Resolve loads a zone by IANA name. An empty name or "Local" selects the
// process zone.
func Resolve(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "" || strings.EqualFold(name, "local"):
		return time.Local, nil
	case strings.EqualFold(name, "utc"):
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownZone, name, err)
	}
	return loc, nil
}

// OffsetLabel formats the UTC offset of loc at instant t as "UTC+08:00".
func OffsetLabel(loc *time.Location, t time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	_, offset := t.In(loc).Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
