// Package palette resolves the colours used by the email renderer from
// go-theme manifests.
package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

// Token names understood by the email template.
const (
	TokenBanner         = "banner"
	TokenBannerText     = "banner.text"
	TokenBannerBorder   = "banner.border"
	TokenHeader         = "header"
	TokenHeaderText     = "header.text"
	TokenSectionTitle   = "section.title"
	TokenBorder         = "table.border"
	TokenTableHead      = "table.head"
	TokenLink           = "link"
	TokenCallout        = "callout"
	TokenCalloutBorder  = "callout.border"
	TokenFooter         = "footer"
	TokenFooterText     = "footer.text"
	TokenFooterBox      = "footer.box"
	TokenFooterLabel    = "footer.label"
	TokenInternalFooter = "internal.footer"
	TokenInternalText   = "internal.footer.text"
	TokenInternalBorder = "internal.footer.border"

	statusTokenPrefix = "status."
)

// DefaultTheme and DefaultVariant name the built-in manifest.
const (
	DefaultTheme   = "shp"
	DefaultVariant = ""
)

var (
	// ErrUnknownTheme is returned when no manifest is registered under a name.
	ErrUnknownTheme = errors.New("palette: unknown theme")
	// ErrUnknownVariant is returned when a manifest has no such variant.
	ErrUnknownVariant = errors.New("palette: unknown variant")
)

// StatusToken returns the token holding the background colour for status.
func StatusToken(status notice.Status) string {
	return statusTokenPrefix + status.Key()
}

// DefaultManifest describes the stock notice colours plus a high-contrast
// variant for mail clients that flatten light backgrounds.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Templates: map[string]string{
			"email": "email.tpl",
		},
		Tokens: map[string]string{
			TokenBanner:         "#005baa",
			TokenBannerText:     "#ffffff",
			TokenBannerBorder:   "#003366",
			TokenHeader:         "#8B0000",
			TokenHeaderText:     "#ffffff",
			TokenSectionTitle:   "#444",
			TokenBorder:         "#8B0000",
			TokenTableHead:      "#f2f2f2",
			TokenLink:           "#0066cc",
			TokenCallout:        "#f8f9fa",
			TokenCalloutBorder:  "#ddd",
			TokenFooter:         "#8B0000",
			TokenFooterText:     "#ffffff",
			TokenFooterBox:      "#000000",
			TokenFooterLabel:    "#8B0000",
			TokenInternalFooter: "#333",
			TokenInternalText:   "#ffffff",
			TokenInternalBorder: "#555",

			StatusToken(notice.StatusInProgress): "#fff3cd",
			StatusToken(notice.StatusCompleted):  "#d4edda",
			StatusToken(notice.StatusPostponed):  "#f8d7da",
			StatusToken(notice.StatusToStart):    "#e2e3e5",
		},
		Variants: map[string]theme.Variant{
			"high-contrast": {
				Tokens: map[string]string{
					TokenBanner:                          "#003366",
					TokenHeader:                          "#5c0000",
					TokenBorder:                          "#000000",
					TokenSectionTitle:                    "#000000",
					TokenLink:                            "#003399",
					StatusToken(notice.StatusInProgress): "#ffe08a",
					StatusToken(notice.StatusCompleted):  "#9fdfb0",
					StatusToken(notice.StatusPostponed):  "#f1a1a8",
					StatusToken(notice.StatusToStart):    "#c6c8ca",
				},
			},
		},
	}
}

// Palette is a flattened token set for one theme and variant.
type Palette struct {
	Theme   string
	Variant string
	Tokens  map[string]string
}

// Color returns the value of token, or "" when the palette does not define it.
func (p Palette) Color(token string) string {
	return p.Tokens[token]
}

// StatusColor returns the row background for status, or "" for statuses
// without a colour. Matching ignores case and spaces.
func (p Palette) StatusColor(status notice.Status) string {
	key := status.Key()
	if key == "" {
		return ""
	}
	return p.Tokens[statusTokenPrefix+key]
}

// Catalog holds manifests and implements theme.ThemeSelector over them.
type Catalog struct {
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog registers manifests. With no arguments it holds DefaultManifest.
// Manifests are checked by a go-theme registry before they are accepted.
func NewCatalog(manifests ...*theme.Manifest) (*Catalog, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	catalog := &Catalog{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("palette: register %q: %w", manifest.Name, err)
		}
		catalog.manifests[manifest.Name] = manifest
	}
	return catalog, nil
}

// Themes lists the registered theme names.
func (c *Catalog) Themes() []string {
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. An empty name selects DefaultTheme;
// an empty variant selects the base tokens.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Resolve selects a theme and flattens its tokens, variant values overriding
// the base ones.
func Resolve(selector theme.ThemeSelector, name, variant string) (Palette, error) {
	if selector == nil {
		return Palette{}, errors.New("palette: selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Palette{}, err
	}
	if selection == nil || selection.Manifest == nil {
		return Palette{}, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	return FromSelection(selection), nil
}

// FromSelection flattens a go-theme selection into a Palette.
func FromSelection(selection *theme.Selection) Palette {
	out := Palette{Tokens: map[string]string{}}
	if selection == nil {
		return out
	}
	out.Theme = selection.Theme
	out.Variant = selection.Variant
	if selection.Manifest == nil {
		return out
	}
	for key, value := range selection.Manifest.Tokens {
		out.Tokens[key] = value
	}
	if selection.Variant != "" {
		if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				out.Tokens[key] = value
			}
		}
	}
	return out
}

// Default returns the flattened DefaultManifest base palette.
func Default() Palette {
	return FromSelection(&theme.Selection{Theme: DefaultTheme, Manifest: DefaultManifest()})
}
