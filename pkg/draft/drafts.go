package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

// DefaultKey is the slot drafts are saved under.
const DefaultKey = "siteSwitchDraft"

// DefaultQuotaBytes caps encoded drafts at roughly what a browser grants a
// single origin's local storage.
const DefaultQuotaBytes = 5 << 20

// Options configures a Drafts service.
type Options struct {
	Key        string
	QuotaBytes int
}

// Option mutates Options.
type Option func(*Options)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(o *Options) {
		if key != "" {
			o.Key = key
		}
	}
}

// WithQuota overrides the size limit; zero or negative disables it.
func WithQuota(bytes int) Option {
	return func(o *Options) {
		o.QuotaBytes = bytes
	}
}

// Drafts saves and loads the single draft slot through a Backend.
type Drafts struct {
	backend Backend
	opts    Options
}

// New builds a Drafts service over backend.
func New(backend Backend, options ...Option) *Drafts {
	opts := Options{Key: DefaultKey, QuotaBytes: DefaultQuotaBytes}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return &Drafts{backend: backend, opts: opts}
}

// Key returns the storage key in use.
func (d *Drafts) Key() string {
	return d.opts.Key
}

// Save writes the full state under the configured key, replacing any previous
// draft. It does not validate the state.
func (d *Drafts) Save(ctx context.Context, state *notice.FormState) error {
	if state == nil {
		return &StorageError{Op: "save", Key: d.opts.Key, Err: errors.New("state is nil")}
	}
	payload, err := FromState(state).Encode()
	if err != nil {
		return &StorageError{Op: "save", Key: d.opts.Key, Err: err}
	}
	if d.opts.QuotaBytes > 0 && len(payload) > d.opts.QuotaBytes {
		return &StorageError{
			Op:  "save",
			Key: d.opts.Key,
			Err: fmt.Errorf("%w: %d bytes over %d byte limit", ErrQuotaExceeded, len(payload), d.opts.QuotaBytes),
		}
	}
	if err := d.backend.Put(ctx, d.opts.Key, payload); err != nil {
		return &StorageError{Op: "save", Key: d.opts.Key, Err: err}
	}
	return nil
}

// Load reads the draft and rebuilds a state from it. A missing draft yields
// ErrNoDraft and an unreadable one ErrMalformedDraft, both wrapped in a
// StorageError.
func (d *Drafts) Load(ctx context.Context) (*notice.FormState, error) {
	payload, err := d.backend.Get(ctx, d.opts.Key)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: d.opts.Key, Err: err}
	}
	doc, err := Decode(payload)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: d.opts.Key, Err: err}
	}
	return doc.State(), nil
}
