package email

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplateName is the path of the notice template inside TemplatesFS.
const TemplateName = "templates/email.tmpl"

// TemplatesFS exposes the embedded template bundle so callers can copy and
// customise it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
