package timezones

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Component bundles the zone picker handler with its options. The same zone
// list backs both the picker and Location, so a zone accepted from
// configuration is always one the picker offers.
type Component struct {
	opts Options
}

// New constructs a component from the default options plus overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Zones returns the zones the component offers.
func (c *Component) Zones() ([]string, error) {
	opts := c.Options()
	if opts.Zones != nil {
		return slices.Clone(opts.Zones), nil
	}
	return DefaultZones()
}

// Location resolves name against the offered zones. Empty and "Local" select
// the process zone.
func (c *Component) Location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	zones, err := c.Zones()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(zones, name) {
		return nil, fmt.Errorf("%w: %q is not offered", ErrUnknownZone, name)
	}
	return Resolve(name)
}

// Handler returns the zone search handler.
func (c *Component) Handler() http.Handler {
	return HandlerWithOptions(c.Options())
}

// Mount registers the handler on r under basePath.
func (c *Component) Mount(r chi.Router, basePath string) (string, error) {
	return MountWithOptions(r, basePath, c.Options())
}
