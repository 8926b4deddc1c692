package render

import (
	"context"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

// Renderer turns a form state into a byte representation (HTML email, plain
// text). Renderers must be deterministic and must not fail on empty fields.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, state *notice.FormState) ([]byte, error)
}
