package email_test

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/palette"
	"github.com/goliatone/go-changenotice/pkg/render"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
	"github.com/goliatone/go-changenotice/pkg/testsupport"
)

var rowOpenTag = regexp.MustCompile(`<tr(?: style="[^"]*")?>\s*<td style="border:1px solid`)

func newRenderer(t *testing.T, opts ...email.Option) *email.Renderer {
	t.Helper()
	r, err := email.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderString(t *testing.T, r *email.Renderer, state *notice.FormState) string {
	t.Helper()
	out, err := r.Render(context.Background(), state)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "email" {
		t.Fatalf("name = %q", r.Name())
	}
	if r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestRenderer_SectionOrder(t *testing.T) {
	html := renderString(t, newRenderer(t), testsupport.SampleState())

	markers := []string{
		notice.DefaultTopHeader,
		"<h1",
		"Primary site switch",
		"Planned maintenance",
		">Description</h2>",
		">Schedule</h2>",
		"CHG001",
		"CHG002",
		">Impact</h2>",
		">Rollback</h2>",
		">Questions and further information</h2>",
		"Guide+for+Cross+Functional+Teams",
		"SHP+Tenants+-+Self+Help+Page+for+Common+Issues",
		"SUPPORT EMAIL",
		"dpsr@hsbc.co.uk",
		"XMATTERS",
		"Digital Platform Operations",
		"Next update will be provided as soon as new information becomes available.",
		notice.DefaultInternalFooter + "</td>",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(html[last+1:], marker)
		if idx < 0 {
			t.Fatalf("marker %q missing or out of order", marker)
		}
		last += 1 + idx
	}
}

func TestRenderer_ScheduleHeadings(t *testing.T) {
	html := renderString(t, newRenderer(t), testsupport.SampleState())
	for _, heading := range email.Headings {
		if !strings.Contains(html, ">"+heading+"</th>") {
			t.Fatalf("missing heading %q", heading)
		}
	}
	if !strings.Contains(html, `<td style="border:1px solid #8B0000;padding:6px;">CHG001</td>`) {
		t.Fatalf("expected styled change id cell")
	}
}

func TestRenderer_StatusColours(t *testing.T) {
	cases := []struct {
		status notice.Status
		want   string
	}{
		{"In Progress", `style="background-color:#fff3cd;"`},
		{"completed", `style="background-color:#d4edda;"`},
		{"POSTPONED", `style="background-color:#f8d7da;"`},
		{"To Start", `style="background-color:#e2e3e5;"`},
		{"Cancelled", ""},
		{"", ""},
	}

	r := newRenderer(t)
	for _, tc := range cases {
		state := testsupport.SampleState()
		state.Rows = []notice.ScheduleRow{{ChangeID: "CHG9", Status: tc.status}}

		html := renderString(t, r, state)
		tags := rowOpenTag.FindAllString(html, -1)
		if len(tags) != 1 {
			t.Fatalf("status %q: expected one body row, got %d", tc.status, len(tags))
		}
		if tc.want == "" {
			if strings.Contains(tags[0], "background") {
				t.Fatalf("status %q: expected no background, got %s", tc.status, tags[0])
			}
			continue
		}
		if !strings.Contains(tags[0], tc.want) {
			t.Fatalf("status %q: want %s in %s", tc.status, tc.want, tags[0])
		}
	}
}

func TestRenderer_OptionalHeaders(t *testing.T) {
	state := testsupport.SampleState()
	state.OptionalHeaders = []notice.OptionalHeader{
		{Name: "Alpha", Content: "first"},
		{Name: "NameOnly", Content: ""},
		{Name: "", Content: "ContentOnly"},
		{Name: "Beta", Content: "second"},
	}

	html := renderString(t, newRenderer(t), state)
	if strings.Contains(html, "NameOnly") || strings.Contains(html, "ContentOnly") {
		t.Fatalf("incomplete optional headers must not render")
	}
	alpha := strings.Index(html, ">Alpha</h2>")
	beta := strings.Index(html, ">Beta</h2>")
	if alpha < 0 || beta < 0 || alpha > beta {
		t.Fatalf("expected Alpha then Beta sections, got %d/%d", alpha, beta)
	}
}

func TestRenderer_EscapesUserText(t *testing.T) {
	state := testsupport.SampleState()
	state.Title = `<script>alert("x")</script>`
	state.Description = "a < b & c\nnext"
	state.Rows[0].ChangeID = "<b>CHG</b>"
	state.OptionalHeaders = []notice.OptionalHeader{{Name: "<i>n</i>", Content: "<img src=x>"}}

	html := renderString(t, newRenderer(t), state)
	for _, raw := range []string{"<script>", "<b>CHG</b>", "<i>n</i>", "<img src=x>"} {
		if strings.Contains(html, raw) {
			t.Fatalf("raw markup %q leaked into output", raw)
		}
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped title")
	}
	if !strings.Contains(html, "a &lt; b &amp; c<br>next") {
		t.Fatalf("expected escaped description with line break")
	}
}

func TestRenderer_LineBreaks(t *testing.T) {
	state := testsupport.MustLoadState(t, filepath.Join("testdata", "draft.json"))
	html := renderString(t, newRenderer(t), state)

	if !strings.Contains(html, ">Line one<br>Line two<br>Line four</p>") {
		t.Fatalf("expected collapsed line breaks in description")
	}
	if strings.Contains(html, ">Rollback</h2>") {
		t.Fatalf("optional header without content must not render")
	}
	if !strings.Contains(html, `style="background-color:#d4edda;"`) {
		t.Fatalf("expected completed row colour")
	}
}

func TestRenderer_EmptyStateDoesNotFail(t *testing.T) {
	r := newRenderer(t)
	for _, state := range []*notice.FormState{nil, {}, notice.New()} {
		if _, err := r.Render(context.Background(), state); err != nil {
			t.Fatalf("render empty state: %v", err)
		}
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	r := newRenderer(t)
	state := testsupport.SampleState()
	first, err := r.Render(context.Background(), state)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Render(context.Background(), state)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("render output differs between calls")
		}
	}
}

func TestRenderer_MarkdownFormat(t *testing.T) {
	r := newRenderer(t, email.WithRenderOptions(render.WithTextFormat(render.TextMarkdown)))
	state := testsupport.SampleState()
	state.Description = "**bold** move\n\n<script>alert(1)</script>"

	html := renderString(t, r, state)
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected markdown emphasis")
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("markdown output must be sanitized")
	}
}

func TestRenderer_PaletteVariant(t *testing.T) {
	catalog, err := palette.NewCatalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	p, err := palette.Resolve(catalog, palette.DefaultTheme, "high-contrast")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	r := newRenderer(t, email.WithRenderOptions(render.WithPalette(p)))

	html := renderString(t, r, testsupport.SampleState())
	if !strings.Contains(html, `bgcolor="#003366"`) {
		t.Fatalf("expected variant banner colour")
	}
	if !strings.Contains(html, `style="background-color:#ffe08a;"`) {
		t.Fatalf("expected variant status colour")
	}
}

func TestRenderer_SupportAndLogo(t *testing.T) {
	support := email.DefaultSupport()
	support.Email = "ops@example.com"
	r := newRenderer(t,
		email.WithSupport(support),
		email.WithRenderOptions(render.WithLogoURL("https://example.com/logo.png")),
	)

	html := renderString(t, r, testsupport.SampleState())
	if !strings.Contains(html, "ops@example.com") {
		t.Fatalf("expected custom support email")
	}
	if !strings.Contains(html, `<img src="https://example.com/logo.png"`) {
		t.Fatalf("expected logo")
	}
	if strings.Contains(renderString(t, newRenderer(t), testsupport.SampleState()), "<img") {
		t.Fatalf("logo must be omitted by default")
	}
}

func TestNew_RejectsBrokenTemplate(t *testing.T) {
	files := fstest.MapFS{
		email.TemplateName: {Data: []byte("{% for row in notice.rows %}")},
	}
	if _, err := email.New(email.WithTemplatesFS(files)); err == nil {
		t.Fatalf("expected construction error for broken template")
	}
}
