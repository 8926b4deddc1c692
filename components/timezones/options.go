package timezones

import (
	"net/http"
	"slices"
	"time"
)

// EmptySearchMode decides what an empty query returns.
type EmptySearchMode string

const (
	// EmptySearchNone answers an empty query with no zones.
	EmptySearchNone EmptySearchMode = "none"
	// EmptySearchTop answers an empty query with the pinned zones followed
	// by the rest of the list, up to the limit.
	EmptySearchTop EmptySearchMode = "top"
)

// GuardFunc vets a request before the search runs. A returned error that
// implements HTTPError picks the status; any other error is a 403.
type GuardFunc func(r *http.Request) error

// Options configures the zone picker handler.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc
	// Pinned zones are listed first for an empty query and ranked ahead of
	// other matches.
	Pinned []string
	// Now is the instant offsets in labels are computed for.
	Now func() time.Time
	// Zones replaces the embedded list when non-nil.
	Zones []string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

const (
	defaultRoutePath = "/timezones"
	defaultLimit     = 50
	defaultMaxLimit  = 200
)

// DefaultOptions mounts the handler at /timezones with the region zones
// pinned.
func DefaultOptions() Options {
	return Options{
		RoutePath:       defaultRoutePath,
		SearchParam:     "q",
		LimitParam:      "limit",
		DefaultLimit:    defaultLimit,
		MaxLimit:        defaultMaxLimit,
		EmptySearchMode: EmptySearchTop,
		Pinned:          DefaultPinned(),
		Now:             time.Now,
	}
}

// DefaultPinned lists the zones of the Hong Kong, UK and US regions.
func DefaultPinned() []string {
	return []string{"Asia/Hong_Kong", "Europe/London", "America/New_York"}
}

// NewOptions applies fns over DefaultOptions and fills any field left zero.
// Slices are copied so callers can keep mutating theirs.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}

	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Zones = slices.Clone(opts.Zones)
	opts.Pinned = slices.Clone(opts.Pinned)
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithZones replaces the embedded list. A nil slice restores it.
func WithZones(zones []string) OptionFn {
	return func(o *Options) { o.Zones = slices.Clone(zones) }
}

// WithPinned replaces the pinned zones.
func WithPinned(zones []string) OptionFn {
	return func(o *Options) { o.Pinned = slices.Clone(zones) }
}

// WithClock sets the instant offsets are computed for.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) { o.Now = now }
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
