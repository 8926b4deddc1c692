package email

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/palette"
	"github.com/goliatone/go-changenotice/pkg/render"
	rendertemplate "github.com/goliatone/go-changenotice/pkg/render/template"
	"github.com/goliatone/go-changenotice/pkg/render/template/pongo"
)

// Name is the registry name of the renderer.
const Name = "email"

// Column headings of the schedule table, in cell order.
var Headings = []string{
	"CHG#",
	"Region",
	"Environment",
	"Implementation Start Time (UTC)",
	"Implementation End Time (UTC)",
	"Status",
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	support          Support
	renderOptions    []render.Option
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain TemplateName.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSupport replaces the contact block.
func WithSupport(support Support) Option {
	return func(cfg *config) {
		cfg.support = support
	}
}

// WithRenderOptions forwards text format, palette and logo settings.
func WithRenderOptions(opts ...render.Option) Option {
	return func(cfg *config) {
		cfg.renderOptions = append(cfg.renderOptions, opts...)
	}
}

// Renderer produces the HTML email body.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	options   render.Options
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the email renderer. The template is executed once against an
// empty document so syntax errors surface here rather than on first use.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), support: DefaultSupport()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithSetName("email"),
		)
		if err != nil {
			return nil, fmt.Errorf("email renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if err := renderer.GlobalContext(map[string]any{"support": cfg.support}); err != nil {
		return nil, fmt.Errorf("email renderer: apply support block: %w", err)
	}

	r := &Renderer{
		templates: renderer,
		options:   render.NewOptions(cfg.renderOptions...),
	}
	if _, err := r.Render(context.Background(), notice.New()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the email for state. Empty fields render as empty
// elements; only template engine faults return an error.
func (r *Renderer) Render(ctx context.Context, state *notice.FormState) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("email renderer: template renderer is nil")
	}
	if state == nil {
		state = &notice.FormState{}
	}

	result, err := r.templates.RenderTemplate(TemplateName, map[string]any{
		"notice":   buildView(state, r.options),
		"palette":  templateTokens(r.options.Palette),
		"headings": Headings,
		"logoURL":  r.options.LogoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("email renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type view struct {
	TopHeader      string        `json:"topHeader"`
	Title          string        `json:"title"`
	Meta           string        `json:"meta"`
	Description    string        `json:"description"`
	Impact         string        `json:"impact"`
	Questions      string        `json:"questions"`
	InternalFooter string        `json:"internalFooter"`
	Rows           []rowView     `json:"rows"`
	Sections       []sectionView `json:"sections"`
}

type rowView struct {
	Background string   `json:"background"`
	Cells      []string `json:"cells"`
}

type sectionView struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

func buildView(state *notice.FormState, opts render.Options) view {
	out := view{
		TopHeader:      state.TopHeader,
		Title:          state.Title,
		Meta:           state.Meta,
		Description:    render.TextToHTML(state.Description, opts.TextFormat),
		Impact:         render.TextToHTML(state.Impact, opts.TextFormat),
		Questions:      render.TextToHTML(state.Questions, opts.TextFormat),
		InternalFooter: state.InternalFooter,
		Rows:           make([]rowView, 0, len(state.Rows)),
		Sections:       []sectionView{},
	}
	for _, row := range state.Rows {
		out.Rows = append(out.Rows, rowView{
			Background: opts.Palette.StatusColor(row.Status),
			Cells: []string{
				row.ChangeID,
				string(row.Region),
				string(row.Environment),
				row.StartTime,
				row.EndTime,
				string(row.Status),
			},
		})
	}
	for _, header := range state.OptionalHeaders {
		if !header.Renderable() {
			continue
		}
		out.Sections = append(out.Sections, sectionView{
			Name: header.Name,
			Body: render.TextToHTML(header.Content, opts.TextFormat),
		})
	}
	return out
}

// templateTokens rewrites dotted token names ("banner.text") into names the
// template can address as attributes ("banner_text").
func templateTokens(p palette.Palette) map[string]string {
	out := make(map[string]string, len(p.Tokens))
	for key, value := range p.Tokens {
		out[strings.ReplaceAll(key, ".", "_")] = value
	}
	return out
}
