package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-changenotice/components/timezones"
	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/pkg/apidoc"
	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/testsupport"
)

type errorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Issues  map[string][]string `json:"issues"`
}

func newServer(t *testing.T, opts ...editor.Option) *httptest.Server {
	t.Helper()
	opts = append([]editor.Option{editor.WithLocation(time.UTC)}, opts...)
	ctrl, err := editor.New(opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	srv, err := New(ctrl, WithTimezones(timezones.New(
		timezones.WithZones([]string{"Asia/Hong_Kong", "Europe/London", "UTC"}),
	)))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postAction(t *testing.T, ts *httptest.Server, name string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	resp, err := http.Post(ts.URL+"/api/actions/"+name, "application/json", &body)
	if err != nil {
		t.Fatalf("post %s: %v", name, err)
	}
	return resp, readBody(t, resp)
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return buf.Bytes()
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, body); got["status"] != "ok" {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestState_MatchesDraftSchema(t *testing.T) {
	ts := newServer(t)
	resp, body := get(t, ts, "/api/state")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if err := apidoc.ValidateDraft(body); err != nil {
		t.Fatalf("state does not satisfy the draft schema: %v", err)
	}
	doc := decode[draft.Document](t, body)
	if doc.TopHeader != notice.DefaultTopHeader || len(doc.Rows) != 1 {
		t.Fatalf("unexpected initial document %+v", doc)
	}
}

func TestDispatch_EditsDocument(t *testing.T) {
	ts := newServer(t)

	resp, body := postAction(t, ts, editor.ActionSetField, editor.Payload{Field: notice.FieldTitle, Value: "Site switch"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	outcome := decode[editor.Outcome](t, body)
	if outcome.Action != editor.ActionSetField || outcome.State.Title != "Site switch" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	resp, body = postAction(t, ts, editor.ActionSetTime, editor.Payload{
		Row: 0, Field: notice.RowFieldStartTime,
		Year: 2025, Month: 6, Day: 1, Hour: 9, Minute: 0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	outcome = decode[editor.Outcome](t, body)
	if outcome.EndMinimum != "2025-06-01 09:01" {
		t.Fatalf("unexpected end minimum %q", outcome.EndMinimum)
	}

	_, body = get(t, ts, "/api/state")
	if doc := decode[draft.Document](t, body); doc.Rows[0].StartTime != "2025-06-01 09:00" {
		t.Fatalf("state not updated: %+v", doc.Rows[0])
	}
}

func TestDispatch_EmptyBodyAllowed(t *testing.T) {
	ts := newServer(t)
	resp, body := postAction(t, ts, editor.ActionAddRow, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if outcome := decode[editor.Outcome](t, body); len(outcome.State.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(outcome.State.Rows))
	}
}

func TestDispatch_Errors(t *testing.T) {
	ts := newServer(t)
	cases := []struct {
		name    string
		action  string
		payload any
		status  int
		code    string
	}{
		{"unknown action", "copy", nil, http.StatusNotFound, "unknown_action"},
		{"bad row", editor.ActionRemoveRow, editor.Payload{Row: 7}, http.StatusBadRequest, "invalid_payload"},
		{"bad region", editor.ActionSetRowField, editor.Payload{Field: notice.RowFieldRegion, Value: "EU"}, http.StatusBadRequest, "invalid_payload"},
		{"no draft", editor.ActionLoadDraft, nil, http.StatusNotFound, "no_draft"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postAction(t, ts, tc.action, tc.payload)
			if resp.StatusCode != tc.status {
				t.Fatalf("status %d, want %d: %s", resp.StatusCode, tc.status, body)
			}
			got := decode[errorBody](t, body)
			if got.Error != tc.code || got.Status != tc.status || got.Message == "" {
				t.Fatalf("unexpected error body %+v", got)
			}
		})
	}
}

func TestDispatch_InvalidJSON(t *testing.T) {
	ts := newServer(t)
	resp, err := http.Post(ts.URL+"/api/actions/set-field", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := decode[errorBody](t, body); got.Error != "invalid_json" {
		t.Fatalf("unexpected error %+v", got)
	}
}

func TestDispatch_ValidationFailureIs422(t *testing.T) {
	ts := newServer(t)
	resp, body := postAction(t, ts, editor.ActionSaveDraft, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	outcome := decode[editor.Outcome](t, body)
	if outcome.Validation == nil || outcome.Validation.Valid {
		t.Fatalf("expected validation issues, got %+v", outcome.Validation)
	}
	if len(outcome.Validation.Messages[notice.FieldDescription]) == 0 {
		t.Fatalf("description message missing: %v", outcome.Validation.Messages)
	}
}

func TestDispatch_RefusedStructuralChangeIs422(t *testing.T) {
	ts := newServer(t)
	resp, body := postAction(t, ts, editor.ActionRemoveRow, editor.Payload{Row: 0})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	outcome := decode[editor.Outcome](t, body)
	if !outcome.Refused || outcome.Message != editor.MessageLastRow {
		t.Fatalf("expected refusal, got %+v", outcome)
	}
	if len(outcome.State.Rows) != 1 {
		t.Fatalf("refused removal changed the table: %+v", outcome.State.Rows)
	}
}

func TestDispatch_RowEditReportsMissingFields(t *testing.T) {
	ts := newServer(t)
	resp, body := postAction(t, ts, editor.ActionSetRowField, editor.Payload{Row: 0, Field: notice.RowFieldChangeID, Value: "CHG1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	outcome := decode[editor.Outcome](t, body)
	if len(outcome.RowIssues) != 4 {
		t.Fatalf("expected four missing row fields, got %+v", outcome.RowIssues)
	}
}

func TestPreview(t *testing.T) {
	ts := newServer(t)
	resp, body := get(t, ts, "/api/preview")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", resp.StatusCode)
	}
	report := decode[editor.Report](t, body)
	if report.Valid || len(report.Issues) == 0 {
		t.Fatalf("expected issues, got %+v", report)
	}

	ts = newServer(t, editor.WithState(testsupport.SampleState()))
	resp, body = get(t, ts, "/api/preview")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.Contains(body, []byte("CHG002")) {
		t.Fatalf("preview missing schedule rows")
	}
}

func TestExports(t *testing.T) {
	ts := newServer(t, editor.WithState(testsupport.SampleState()))

	resp, body := get(t, ts, "/api/export.csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("csv status %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="change-schedule.csv"` {
		t.Fatalf("content disposition %q", cd)
	}
	if !bytes.HasPrefix(body, []byte("CHG#,Region,Environment")) {
		t.Fatalf("unexpected csv %q", body)
	}

	resp, body = get(t, ts, "/api/export.ics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ics status %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/calendar") {
		t.Fatalf("content type %q", resp.Header.Get("Content-Type"))
	}
	if !bytes.Contains(body, []byte("BEGIN:VCALENDAR")) {
		t.Fatalf("unexpected calendar %q", body)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	ts := newServer(t)
	resp, body := get(t, ts, "/api/openapi.yaml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if diff := cmp.Diff(string(apidoc.Raw()), string(body)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestRoutesCoverDocumentedOperations(t *testing.T) {
	doc, err := apidoc.Default()
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	ts := newServer(t)
	for _, path := range doc.Paths() {
		if strings.Contains(path, "{") {
			continue
		}
		resp, _ := get(t, ts, path)
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
			t.Fatalf("documented path %s is not routed (status %d)", path, resp.StatusCode)
		}
	}
}

func TestTimezones(t *testing.T) {
	ts := newServer(t)
	resp, body := get(t, ts, "/api/timezones?q=london")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	got := decode[struct {
		Data []timezones.Option `json:"data"`
	}](t, body)
	if len(got.Data) != 1 || got.Data[0].Value != "Europe/London" {
		t.Fatalf("unexpected results %+v", got.Data)
	}
}

func TestNew_RequiresController(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil controller")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctrl, err := editor.New()
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	srv, err := New(ctrl, WithShutdownGrace(time.Second))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
