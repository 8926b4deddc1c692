package pongo_test

import (
	"embed"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-changenotice/pkg/render/template/pongo"
	"github.com/goliatone/go-changenotice/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	testsupport.AssertGolden(t, filepath.Join("testdata", "hello.golden"), result)
	if written != result {
		t.Fatalf("writer got %q, returned %q", written, result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, filepath.Join("testdata", "use-global.golden"), result)
}

func TestEngine_GlobalDataOption(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(
		pongo.WithFS(templatesFS),
		pongo.WithGlobalData(map[string]any{"settings": map[string]string{"env": "prod"}}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.RenderTemplate("use-global.tpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=prod" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_AutoescapesByDefault(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderTemplate("escape", map[string]any{"text": " <b>&</b> "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := " &lt;b&gt;&amp;&lt;/b&gt; | <b>&</b> "
	if result != want {
		t.Fatalf("escape mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := pongo.New(pongo.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
