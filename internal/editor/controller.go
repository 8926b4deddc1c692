package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/export"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/render"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
)

type handler func(ctx context.Context, c *Controller, p Payload) (Outcome, error)

var handlers = map[string]handler{
	ActionAddRow:            addRow,
	ActionRemoveRow:         removeRow,
	ActionAddOptionalRow:    addOptionalRow,
	ActionRemoveOptionalRow: removeOptionalRow,
	ActionSetField:          setField,
	ActionSetRowField:       setRowField,
	ActionSetTime:           setTime,
	ActionSetOptionalField:  setOptionalField,
	ActionValidate:          validate,
	ActionSaveDraft:         saveDraft,
	ActionLoadDraft:         loadDraft,
	ActionPreview:           preview,
	ActionExportCSV:         exportCSV,
	ActionExportICS:         exportICS,
}

// Actions lists the dispatchable action names in table order.
func Actions() []string {
	return []string{
		ActionAddRow, ActionRemoveRow, ActionAddOptionalRow, ActionRemoveOptionalRow,
		ActionSetField, ActionSetRowField, ActionSetTime, ActionSetOptionalField,
		ActionValidate, ActionSaveDraft, ActionLoadDraft, ActionPreview,
		ActionExportCSV, ActionExportICS,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithDrafts sets the draft slot; an in-memory one is used otherwise.
func WithDrafts(drafts *draft.Drafts) Option {
	return func(c *Controller) {
		if drafts != nil {
			c.drafts = drafts
		}
	}
}

// WithRenderer sets the preview renderer; the email renderer is the default.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *Controller) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithLocation sets the zone picked and typed times are read in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock fixes the calendar export timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithState seeds the document.
func WithState(state *notice.FormState) Option {
	return func(c *Controller) {
		if state != nil {
			c.state = state.Clone()
			c.state.EnsureStructure()
		}
	}
}

// Controller owns one document. It is not safe for concurrent use; callers
// serialize access.
type Controller struct {
	state       *notice.FormState
	drafts      *draft.Drafts
	renderer    render.Renderer
	loc         *time.Location
	logger      *zap.Logger
	now         func() time.Time
	initialized bool
}

// New builds a controller over a fresh document.
func New(options ...Option) (*Controller, error) {
	c := &Controller{
		state:  notice.New(),
		loc:    time.Local,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.drafts == nil {
		c.drafts = draft.New(draft.NewMemoryBackend())
	}
	if c.renderer == nil {
		renderer, err := email.New()
		if err != nil {
			return nil, fmt.Errorf("editor: build renderer: %w", err)
		}
		c.renderer = renderer
	}
	return c, nil
}

// Init restores the saved draft, if any. Later calls do nothing. A missing
// draft leaves the fresh document in place; other load failures are
// returned and the fresh document is kept.
func (c *Controller) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	state, err := c.drafts.Load(ctx)
	switch {
	case errors.Is(err, draft.ErrNoDraft):
		c.logger.Debug("no saved draft", zap.String("key", c.drafts.Key()))
	case err != nil:
		c.logger.Warn("saved draft could not be restored", zap.Error(err))
		return err
	default:
		c.state = state
		c.logger.Info("draft restored", zap.String("key", c.drafts.Key()))
	}
	c.initialized = true
	return nil
}

// State returns a copy of the document.
func (c *Controller) State() *notice.FormState {
	return c.state.Clone()
}

// Document returns the document in its persisted shape.
func (c *Controller) Document() draft.Document {
	return draft.FromState(c.state)
}

// Location returns the zone operator times are read in.
func (c *Controller) Location() *time.Location {
	return c.loc
}

// Dispatch applies one named action.
func (c *Controller) Dispatch(ctx context.Context, action Action) (Outcome, error) {
	fn, ok := handlers[action.Name]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Name)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	outcome, err := fn(ctx, c, action.Payload)
	if err != nil {
		c.logger.Debug("action failed", zap.String("action", action.Name), zap.Error(err))
		return Outcome{}, err
	}
	outcome.Action = action.Name
	outcome.State = c.Document()

	fields := []zap.Field{zap.String("action", action.Name)}
	if outcome.Refused {
		fields = append(fields, zap.Bool("refused", true))
	}
	if outcome.Rejected() {
		fields = append(fields, zap.Int("issues", len(outcome.Validation.Issues)))
	}
	c.logger.Debug("action applied", fields...)
	return outcome, nil
}

// Run is Dispatch for a name and payload.
func (c *Controller) Run(ctx context.Context, name string, payload Payload) (Outcome, error) {
	return c.Dispatch(ctx, Action{Name: name, Payload: payload})
}

// exportClock is used by the ICS handler.
func (c *Controller) exportClock() export.ICSOption {
	return export.WithClock(c.now)
}
