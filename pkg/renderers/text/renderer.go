// Package text renders a notice as plain text for chat tools and terminals.
package text

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/render"
	"github.com/goliatone/go-changenotice/pkg/render/template/pongo"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Name is the registry name of the renderer.
const Name = "text"

const templateName = "templates/text.tmpl"

// Renderer produces a plain text version of the notice.
type Renderer struct {
	engine *pongo.Engine
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer. support defaults to email.DefaultSupport when
// nil.
func New(support *email.Support) (*Renderer, error) {
	block := email.DefaultSupport()
	if support != nil {
		block = *support
	}
	engine, err := pongo.New(
		pongo.WithFS(embeddedTemplates),
		pongo.WithExtension(".tmpl"),
		pongo.WithSetName("text"),
		pongo.WithGlobalData(map[string]any{"support": block}),
	)
	if err != nil {
		return nil, fmt.Errorf("text renderer: configure template renderer: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, state *notice.FormState) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if state == nil {
		state = &notice.FormState{}
	}

	rows := make([][]string, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, []string{
			row.ChangeID,
			string(row.Region),
			string(row.Environment),
			row.StartTime,
			row.EndTime,
			string(row.Status),
		})
	}
	sections := make([]notice.OptionalHeader, 0, len(state.OptionalHeaders))
	for _, header := range state.OptionalHeaders {
		if header.Renderable() {
			sections = append(sections, header)
		}
	}

	result, err := r.engine.RenderTemplate(templateName, map[string]any{
		"notice": map[string]any{
			"topHeader":      state.TopHeader,
			"title":          state.Title,
			"meta":           state.Meta,
			"description":    normalizeNewlines(state.Description),
			"impact":         normalizeNewlines(state.Impact),
			"questions":      normalizeNewlines(state.Questions),
			"internalFooter": state.InternalFooter,
			"rows":           rows,
			"sections":       sections,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
