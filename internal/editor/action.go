package editor

import (
	"errors"

	"github.com/goliatone/go-changenotice/pkg/draft"
	"github.com/goliatone/go-changenotice/pkg/schedule"
	"github.com/goliatone/go-changenotice/pkg/validation"
)

// Action names accepted by Dispatch.
const (
	ActionAddRow            = "add-row"
	ActionRemoveRow         = "remove-row"
	ActionAddOptionalRow    = "add-optional-row"
	ActionRemoveOptionalRow = "remove-optional-row"
	ActionSetField          = "set-field"
	ActionSetRowField       = "set-row-field"
	ActionSetTime           = "set-time"
	ActionSetOptionalField  = "set-optional-field"
	ActionValidate          = "validate"
	ActionSaveDraft         = "save-draft"
	ActionLoadDraft         = "load-draft"
	ActionPreview           = "preview"
	ActionExportCSV         = "export-csv"
	ActionExportICS         = "export-ics"
)

// Notices shown to the operator.
const (
	MessageLastRow         = "You must have at least one row in the table."
	MessageLastOptional    = "At least one optional header row must remain."
	MessageDraftSaved      = "Draft saved successfully!"
	MessageDraftLoaded     = "Draft loaded."
	MessagePreviewRejected = "Please fill in all required fields and ensure time ranges are valid before previewing."
	MessageSaveRejected    = "Please fill in all required fields and ensure time ranges are valid before saving."
)

// ErrUnknownAction is returned by Dispatch for names outside the table.
var ErrUnknownAction = errors.New("editor: unknown action")

// Payload carries the parameters of an action. Only the fields an action
// reads are meaningful.
type Payload struct {
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Row    int    `json:"row,omitempty"`
	Year   int    `json:"year,omitempty"`
	Month  int    `json:"month,omitempty"`
	Day    int    `json:"day,omitempty"`
	Hour   int    `json:"hour,omitempty"`
	Minute int    `json:"minute,omitempty"`
}

// Selection returns the picked date/time carried by the payload.
func (p Payload) Selection() schedule.Selection {
	return schedule.Selection{Year: p.Year, Month: p.Month, Day: p.Day, Hour: p.Hour, Minute: p.Minute}
}

// Action is a named request against the document.
type Action struct {
	Name    string
	Payload Payload
}

// Report is a validation result together with its messages keyed by field
// path.
type Report struct {
	validation.Result
	Messages map[string][]string `json:"messages,omitempty"`
}

// NewReport wraps result.
func NewReport(result validation.Result) *Report {
	return &Report{Result: result, Messages: result.Messages()}
}

// Outcome describes what an action did. A failed validation is reported
// through Validation and is not an error.
type Outcome struct {
	Action     string               `json:"action"`
	State      draft.Document       `json:"state"`
	Validation *Report              `json:"validation,omitempty"`
	Message    string               `json:"message,omitempty"`
	EndMinimum string               `json:"endMinimum,omitempty"`
	Order      *schedule.OrderCheck `json:"order,omitempty"`
	// RowIssues lists the required fields still empty on an edited row.
	RowIssues []validation.Issue `json:"rowIssues,omitempty"`

	// Refused is set when a structural rule kept the document unchanged.
	Refused bool `json:"refused,omitempty"`
	// Body and ContentType hold generated output for preview and exports.
	Body        []byte `json:"-"`
	ContentType string `json:"-"`
}

// Rejected reports whether the action stopped on a failed validation.
func (o Outcome) Rejected() bool {
	return o.Validation != nil && !o.Validation.Valid
}
