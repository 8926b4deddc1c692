package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/notice"
)

// SampleState returns a fully populated, valid notice used across packages.
func SampleState() *notice.FormState {
	return &notice.FormState{
		TopHeader:      notice.DefaultTopHeader,
		Title:          "Primary site switch",
		Meta:           "Planned maintenance | Ref OPS-1042",
		Description:    "Traffic moves to the secondary site.\nExpect brief reconnects.",
		Impact:         "Logins may be slow for up to five minutes.",
		Questions:      "Contact the platform desk.",
		InternalFooter: notice.DefaultInternalFooter,
		Rows: []notice.ScheduleRow{
			{
				ChangeID:    "CHG001",
				Region:      notice.RegionHK,
				Environment: notice.EnvironmentProd,
				StartTime:   "2025-06-01 01:00",
				EndTime:     "2025-06-01 03:00",
				Status:      notice.StatusInProgress,
			},
			{
				ChangeID:    "CHG002",
				Region:      notice.RegionUK,
				Environment: notice.EnvironmentPreprod,
				StartTime:   "2025-06-02 09:00",
				EndTime:     "2025-06-02 10:30",
				Status:      notice.StatusToStart,
			},
		},
		OptionalHeaders: []notice.OptionalHeader{
			{Name: "Rollback", Content: "Switch DNS back to the primary site."},
		},
	}
}

// MustLoadState reads a draft document fixture into a form state.
func MustLoadState(t *testing.T, path string) *notice.FormState {
	t.Helper()

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}

// LoadState reads a draft document fixture, returning an error for callers
// managing setup outside of *testing.T.
func LoadState(path string) (*notice.FormState, error) {
	if path == "" {
		return nil, errors.New("testsupport: state path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read state: %w", err)
	}
	doc, err := draft.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode state: %w", err)
	}
	return doc.State(), nil
}

// AssertGolden compares got with the golden file at path and fails the test
// with a diff on mismatch. With UPDATE_GOLDENS set it rewrites the file
// instead.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(string(want), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
