package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "time/tzdata"

	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/testsupport"
)

type fixture struct {
	configPath string
	draftDir   string
}

func newFixture(t *testing.T, state *notice.FormState) fixture {
	t.Helper()

	dir := t.TempDir()
	draftDir := filepath.Join(dir, "drafts")
	configPath := filepath.Join(dir, "config.yaml")
	body := "timezone: UTC\nlog_level: error\ndraft:\n  backend: file\n  dir: " + draftDir + "\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if state != nil {
		drafts := draft.New(draft.NewFileBackend(draftDir))
		if err := drafts.Save(testsupport.Context(), state); err != nil {
			t.Fatalf("seed draft: %v", err)
		}
	}
	return fixture{configPath: configPath, draftDir: draftDir}
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	app := &App{}
	cmd := NewRootCmd(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", f.configPath}, args...))
	err := cmd.ExecuteContext(testsupport.Context())
	if cerr := app.close(); cerr != nil {
		t.Fatalf("close: %v", cerr)
	}
	return stdout.String(), stderr.String(), err
}

func TestValidateReportsOK(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	out, _, err := f.run(t, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.TrimSpace(out) != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestValidateListsIssues(t *testing.T) {
	state := testsupport.SampleState()
	state.Description = ""
	f := newFixture(t, state)

	out, _, err := f.run(t, "validate")
	if !errors.Is(err, ErrInvalidNotice) {
		t.Fatalf("expected ErrInvalidNotice, got %v", err)
	}
	if !strings.Contains(out, "changeDescription:") {
		t.Fatalf("expected description issue, got %q", out)
	}
}

func TestValidateWithoutDraft(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.run(t, "validate")
	if !errors.Is(err, draft.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestRenderEmail(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	out, _, err := f.run(t, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Primary site switch") {
		t.Fatalf("title missing from email body")
	}
	if !strings.Contains(out, "CHG001") {
		t.Fatalf("schedule row missing from email body")
	}
}

func TestRenderTextToFile(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())
	target := filepath.Join(t.TempDir(), "notice.txt")

	_, stderr, err := f.run(t, "render", "--format", "text", "--output", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stderr, target) {
		t.Fatalf("expected written path on stderr, got %q", stderr)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "CHG002") {
		t.Fatalf("schedule row missing from text body")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	if _, _, err := f.run(t, "render", "--format", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestRenderRejectsInvalidNotice(t *testing.T) {
	state := testsupport.SampleState()
	state.Impact = ""
	f := newFixture(t, state)

	out, stderr, err := f.run(t, "render")
	if !errors.Is(err, ErrInvalidNotice) {
		t.Fatalf("expected ErrInvalidNotice, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no body, got %q", out)
	}
	if stderr == "" {
		t.Fatalf("expected issues on stderr")
	}
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	out, _, err := f.run(t, "export", "csv")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "CHG001") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestExportICS(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	out, _, err := f.run(t, "export", "ics")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Fatalf("expected calendar output")
	}
	if strings.Count(out, "BEGIN:VEVENT") != 2 {
		t.Fatalf("expected two events")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t, testsupport.SampleState())

	if _, _, err := f.run(t, "export", "xlsx"); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestDraftKeyOverride(t *testing.T) {
	f := newFixture(t, nil)
	drafts := draft.New(draft.NewFileBackend(f.draftDir), draft.WithKey("otherDraft"))
	if err := drafts.Save(testsupport.Context(), testsupport.SampleState()); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	if _, _, err := f.run(t, "validate"); !errors.Is(err, draft.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft for the default key, got %v", err)
	}
	out, _, err := f.run(t, "--draft", "otherDraft", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.TrimSpace(out) != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
}
