package changenotice

import (
	"io/fs"

	"github.com/goliatone/go-changenotice/pkg/renderers/email"
)

// EmbeddedTemplates exposes the built-in email templates so callers can copy
// or extend them and hand the result back through email.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return email.TemplatesFS()
}
