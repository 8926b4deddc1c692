package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-changenotice/pkg/palette"
)

// TextFormat selects how long-form fields are turned into HTML.
type TextFormat string

const (
	// TextPlain escapes the text and turns line breaks into <br>.
	TextPlain TextFormat = "plain"
	// TextMarkdown renders the text as GitHub flavoured markdown and
	// sanitizes the result.
	TextMarkdown TextFormat = "markdown"
)

// ErrUnknownTextFormat is returned by ParseTextFormat.
var ErrUnknownTextFormat = errors.New("render: unknown text format")

// ParseTextFormat accepts "plain", "markdown" (or "md"); empty means plain.
func ParseTextFormat(raw string) (TextFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(TextPlain):
		return TextPlain, nil
	case string(TextMarkdown), "md":
		return TextMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTextFormat, raw)
	}
}

// Options configures the email renderer.
type Options struct {
	TextFormat TextFormat
	Palette    palette.Palette
	// LogoURL, when set, adds a centered logo above the internal footer.
	LogoURL string
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns plain text with the default palette.
func DefaultOptions() Options {
	return Options{
		TextFormat: TextPlain,
		Palette:    palette.Default(),
	}
}

// NewOptions applies options over DefaultOptions.
func NewOptions(opts ...Option) Options {
	options := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// WithTextFormat sets the long-form text conversion.
func WithTextFormat(format TextFormat) Option {
	return func(o *Options) {
		if format != "" {
			o.TextFormat = format
		}
	}
}

// WithPalette sets the colours used by the template.
func WithPalette(p palette.Palette) Option {
	return func(o *Options) {
		if len(p.Tokens) > 0 {
			o.Palette = p
		}
	}
}

// WithLogoURL shows a logo above the internal footer.
func WithLogoURL(url string) Option {
	return func(o *Options) {
		o.LogoURL = strings.TrimSpace(url)
	}
}
