package export

import (
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
)

// ProductID identifies the generator in exported calendars.
const ProductID = "-//goliatone//go-changenotice//EN"

// uidNamespace scopes the name-based UUIDs of exported events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-changenotice/events"))

// ICSOptions tunes the calendar export.
type ICSOptions struct {
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

// ICSOption mutates ICSOptions.
type ICSOption func(*ICSOptions)

// WithClock fixes the DTSTAMP clock.
func WithClock(now func() time.Time) ICSOption {
	return func(o *ICSOptions) {
		if now != nil {
			o.Now = now
		}
	}
}

// EventUID derives a stable identifier from the fields that name a change
// window, so re-exporting the same row updates rather than duplicates the
// calendar entry. occurrence counts earlier rows sharing those fields; it
// keeps repeated windows apart and leaves the first one's uid unchanged.
func EventUID(row notice.ScheduleRow, occurrence int) string {
	key := windowKey(row)
	if occurrence > 0 {
		key += "|" + strconv.Itoa(occurrence)
	}
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}

func windowKey(row notice.ScheduleRow) string {
	return strings.Join([]string{
		strings.TrimSpace(row.ChangeID),
		string(row.Region),
		string(row.Environment),
		strings.TrimSpace(row.StartTime),
	}, "|")
}

// EventStatus maps a row status onto the VEVENT STATUS values.
func EventStatus(status notice.Status) ical.ObjectStatus {
	switch status.Key() {
	case notice.StatusCompleted.Key():
		return ical.ObjectStatusConfirmed
	case notice.StatusPostponed.Key():
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}

// ICS builds a calendar with one event per row whose start and end both
// parse. Rows with missing or malformed times are skipped.
func ICS(state *notice.FormState, opts ...ICSOption) []byte {
	options := ICSOptions{Now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if state == nil {
		return []byte(cal.Serialize())
	}

	stamp := options.Now().UTC()
	seen := make(map[string]int, len(state.Rows))
	for _, row := range state.Rows {
		start, err := schedule.ParseCanonical(row.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ParseCanonical(row.EndTime)
		if err != nil {
			continue
		}

		key := windowKey(row)
		event := cal.AddEvent(EventUID(row, seen[key]))
		seen[key]++
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(eventSummary(row))
		event.SetStatus(EventStatus(row.Status))
		if title := strings.TrimSpace(state.Title); title != "" {
			event.SetDescription(title)
		}
	}
	return []byte(cal.Serialize())
}

func eventSummary(row notice.ScheduleRow) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{row.ChangeID, string(row.Region), string(row.Environment)} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
