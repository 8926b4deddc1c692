package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

func TestCSV(t *testing.T) {
	rows := []notice.ScheduleRow{
		{ChangeID: "CHG1", Region: notice.RegionHK, Environment: notice.EnvironmentProd, StartTime: "2025-06-01 01:00", EndTime: "2025-06-01 02:00", Status: notice.StatusInProgress},
		{ChangeID: `CHG "2", part`, Region: notice.RegionUK},
		{},
	}

	out, err := CSV(rows)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	wantHead := "CHG#,Region,Environment,Implementation Start Time (UTC),Implementation End Time (UTC),Status\n"
	if !strings.HasPrefix(string(out), wantHead) {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(string(out), `"CHG ""2"", part",UK,,,,`) {
		t.Fatalf("expected RFC 4180 quoting:\n%s", out)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := [][]string{
		CSVHeader,
		{"CHG1", "HK", "Prod", "2025-06-01 01:00", "2025-06-01 02:00", "In Progress"},
		{`CHG "2", part`, "UK", "", "", "", ""},
		{"", "", "", "", "", ""},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_NoRows(t *testing.T) {
	out, err := CSV(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if strings.Count(string(out), "\n") != 1 {
		t.Fatalf("expected header only, got %q", out)
	}
}

func TestICS(t *testing.T) {
	stamp := time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)
	state := &notice.FormState{
		Title: "Primary site switch",
		Rows: []notice.ScheduleRow{
			{ChangeID: "CHG1", Region: notice.RegionHK, Environment: notice.EnvironmentProd, StartTime: "2025-06-01 01:00", EndTime: "2025-06-01 02:30", Status: notice.StatusCompleted},
			{ChangeID: "CHG2", Region: notice.RegionUK, StartTime: "2025-06-02 09:00", EndTime: "", Status: notice.StatusToStart},
			{ChangeID: "CHG3", Region: notice.RegionUS, Environment: notice.EnvironmentPreprod, StartTime: "2025-06-03 09:00", EndTime: "2025-06-03 10:00", Status: notice.StatusPostponed},
		},
	}

	payload := ICS(state, WithClock(func() time.Time { return stamp }))
	cal, err := ical.ParseCalendar(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("parse calendar: %v", err)
	}

	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events (row without end skipped), got %d", len(events))
	}

	first := events[0]
	if got := first.GetProperty(ical.ComponentPropertyUniqueId).Value; got != EventUID(state.Rows[0], 0) {
		t.Fatalf("uid = %q", got)
	}
	if got := first.GetProperty(ical.ComponentPropertySummary).Value; got != "CHG1 HK Prod" {
		t.Fatalf("summary = %q", got)
	}
	if got := first.GetProperty(ical.ComponentPropertyStatus).Value; got != string(ical.ObjectStatusConfirmed) {
		t.Fatalf("status = %q", got)
	}
	if got := first.GetProperty(ical.ComponentPropertyDescription).Value; got != "Primary site switch" {
		t.Fatalf("description = %q", got)
	}
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !start.Equal(time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	end, err := first.GetEndAt()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !end.Equal(time.Date(2025, 6, 1, 2, 30, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}

	if got := events[1].GetProperty(ical.ComponentPropertyStatus).Value; got != string(ical.ObjectStatusCancelled) {
		t.Fatalf("postponed status = %q", got)
	}

	again := ICS(state, WithClock(func() time.Time { return stamp }))
	if !bytes.Equal(payload, again) {
		t.Fatalf("export should be deterministic for a fixed clock")
	}
}

func TestEventUID(t *testing.T) {
	row := notice.ScheduleRow{ChangeID: "CHG1", Region: notice.RegionHK, Environment: notice.EnvironmentProd, StartTime: "2025-06-01 01:00"}
	moved := row
	moved.StartTime = "2025-06-01 02:00"
	edited := row
	edited.Status = notice.StatusCompleted
	edited.EndTime = "2025-06-01 05:00"

	if EventUID(row, 0) == EventUID(moved, 0) {
		t.Fatalf("different windows must not share a uid")
	}
	if EventUID(row, 0) != EventUID(edited, 0) {
		t.Fatalf("status and end edits must keep the uid")
	}
	if EventUID(row, 0) == EventUID(row, 1) {
		t.Fatalf("repeated windows must not share a uid")
	}
}

func TestICS_DuplicateRowsGetDistinctUIDs(t *testing.T) {
	row := notice.ScheduleRow{ChangeID: "CHG1", Region: notice.RegionHK, Environment: notice.EnvironmentProd, StartTime: "2025-06-01 01:00", EndTime: "2025-06-01 02:00"}
	later := row
	later.EndTime = "2025-06-01 03:00"
	state := &notice.FormState{Rows: []notice.ScheduleRow{row, row, later}}

	cal, err := ical.ParseCalendar(bytes.NewReader(ICS(state)))
	if err != nil {
		t.Fatalf("parse calendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	uids := map[string]bool{}
	for _, event := range events {
		uids[event.GetProperty(ical.ComponentPropertyUniqueId).Value] = true
	}
	if len(uids) != 3 {
		t.Fatalf("expected 3 distinct uids, got %v", uids)
	}
	if got := events[0].GetProperty(ical.ComponentPropertyUniqueId).Value; got != EventUID(row, 0) {
		t.Fatalf("first occurrence uid = %q", got)
	}
}

func TestEventStatus(t *testing.T) {
	cases := map[notice.Status]ical.ObjectStatus{
		notice.StatusCompleted:  ical.ObjectStatusConfirmed,
		"POSTPONED":             ical.ObjectStatusCancelled,
		notice.StatusInProgress: ical.ObjectStatusTentative,
		notice.StatusToStart:    ical.ObjectStatusTentative,
		"":                      ical.ObjectStatusTentative,
	}
	for status, want := range cases {
		if got := EventStatus(status); got != want {
			t.Fatalf("EventStatus(%q) = %q, want %q", status, got, want)
		}
	}
}
