package template

import (
	"io"
)

// TemplateRenderer is the seam between renderers and a template engine.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
