// Package changenotice is the convenience entry point for callers that want
// to validate a notice and produce its email body or exports without wiring
// the editor.
package changenotice

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-changenotice/pkg/export"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/renderers/email"
	"github.com/goliatone/go-changenotice/pkg/validation"
)

// FormState aliases notice.FormState.
type FormState = notice.FormState

// Result aliases validation.Result.
type Result = validation.Result

// ErrInvalid is returned by GenerateHTML when the notice fails validation.
// The wrapping error carries the Result.
var ErrInvalid = errors.New("changenotice: notice is not valid")

// InvalidError reports the validation result that blocked rendering.
type InvalidError struct {
	Result Result
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s (%d issues)", ErrInvalid.Error(), len(e.Result.Issues))
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// NewNotice returns a blank notice with the default header and footer, one
// empty schedule row and one empty optional section.
func NewNotice() *FormState {
	return notice.New()
}

// Validate evaluates every form rule against state.
func Validate(state *FormState) Result {
	return validation.Validate(state)
}

// GenerateHTML validates state and renders the email body. Options are passed
// to email.New.
func GenerateHTML(ctx context.Context, state *FormState, options ...email.Option) ([]byte, error) {
	if result := validation.Validate(state); !result.Valid {
		return nil, &InvalidError{Result: result}
	}
	renderer, err := email.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, state)
}

// ExportCSV returns the schedule rows as CSV.
func ExportCSV(state *FormState) ([]byte, error) {
	if state == nil {
		state = notice.New()
	}
	return export.CSV(state.Rows)
}

// ExportICS returns the schedule rows as an iCalendar document.
func ExportICS(state *FormState, opts ...export.ICSOption) []byte {
	return export.ICS(state, opts...)
}
