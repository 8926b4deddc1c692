package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-changenotice/pkg/export"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
	"github.com/goliatone/go-changenotice/pkg/validation"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypeICS = "text/calendar; charset=utf-8"
)

func addRow(_ context.Context, c *Controller, _ Payload) (Outcome, error) {
	c.state.AddRow()
	return Outcome{}, nil
}

func removeRow(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	err := c.state.RemoveRow(p.Row)
	if errors.Is(err, notice.ErrLastScheduleRow) {
		return Outcome{Refused: true, Message: MessageLastRow}, nil
	}
	return Outcome{}, err
}

func addOptionalRow(_ context.Context, c *Controller, _ Payload) (Outcome, error) {
	c.state.AddOptionalHeader()
	return Outcome{}, nil
}

func removeOptionalRow(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	err := c.state.RemoveOptionalHeader(p.Row)
	if errors.Is(err, notice.ErrLastOptionalHeader) {
		return Outcome{Refused: true, Message: MessageLastOptional}, nil
	}
	return Outcome{}, err
}

func setField(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	return Outcome{}, c.state.SetField(p.Field, p.Value)
}

// setRowField stores typed values. Time fields are read as local wall-clock
// text in the controller's zone and go through the same path as picked times.
func setRowField(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	outcome, err := applyRowField(c, p)
	if err != nil {
		return Outcome{}, err
	}
	return withRowIssues(c, p.Row, outcome), nil
}

func applyRowField(c *Controller, p Payload) (Outcome, error) {
	if p.Field != notice.RowFieldStartTime && p.Field != notice.RowFieldEndTime {
		return Outcome{}, c.state.SetRowField(p.Row, p.Field, p.Value)
	}
	if strings.TrimSpace(p.Value) == "" {
		return Outcome{}, c.state.SetRowField(p.Row, p.Field, "")
	}
	sel, err := schedule.ParseLocal(p.Value)
	if err != nil {
		return Outcome{}, err
	}
	return applyTime(c, p.Row, p.Field, sel)
}

func setTime(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	outcome, err := applyTime(c, p.Row, p.Field, p.Selection())
	if err != nil {
		return Outcome{}, err
	}
	return withRowIssues(c, p.Row, outcome), nil
}

// withRowIssues attaches the empty required fields of the edited row.
func withRowIssues(c *Controller, index int, outcome Outcome) Outcome {
	outcome.RowIssues = validation.RowIssues(c.state.Rows[index], index)
	return outcome
}

func applyTime(c *Controller, index int, field string, sel schedule.Selection) (Outcome, error) {
	if index < 0 || index >= len(c.state.Rows) {
		return Outcome{}, fmt.Errorf("%w: %d", notice.ErrRowIndex, index)
	}
	update, err := schedule.Apply(&c.state.Rows[index], field, sel, c.loc)
	if err != nil {
		return Outcome{}, err
	}
	order := update.Order
	return Outcome{EndMinimum: update.EndMinimum, Order: &order}, nil
}

func setOptionalField(_ context.Context, c *Controller, p Payload) (Outcome, error) {
	return Outcome{}, c.state.SetOptionalField(p.Row, p.Field, p.Value)
}

func validate(_ context.Context, c *Controller, _ Payload) (Outcome, error) {
	return Outcome{Validation: NewReport(validation.Validate(c.state))}, nil
}

func saveDraft(ctx context.Context, c *Controller, _ Payload) (Outcome, error) {
	result := validation.Validate(c.state)
	if !result.Valid {
		return Outcome{Validation: NewReport(result), Message: MessageSaveRejected}, nil
	}
	if err := c.drafts.Save(ctx, c.state); err != nil {
		return Outcome{}, err
	}
	return Outcome{Validation: NewReport(result), Message: MessageDraftSaved}, nil
}

func loadDraft(ctx context.Context, c *Controller, _ Payload) (Outcome, error) {
	state, err := c.drafts.Load(ctx)
	if err != nil {
		return Outcome{}, err
	}
	c.state = state
	c.initialized = true
	return Outcome{Message: MessageDraftLoaded}, nil
}

func preview(ctx context.Context, c *Controller, _ Payload) (Outcome, error) {
	result := validation.Validate(c.state)
	if !result.Valid {
		return Outcome{Validation: NewReport(result), Message: MessagePreviewRejected}, nil
	}
	body, err := c.renderer.Render(ctx, c.state)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Validation:  NewReport(result),
		Body:        body,
		ContentType: c.renderer.ContentType(),
	}, nil
}

func exportCSV(_ context.Context, c *Controller, _ Payload) (Outcome, error) {
	body, err := export.CSV(c.state.Rows)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Body: body, ContentType: contentTypeCSV}, nil
}

func exportICS(_ context.Context, c *Controller, _ Payload) (Outcome, error) {
	return Outcome{Body: export.ICS(c.state, c.exportClock()), ContentType: contentTypeICS}, nil
}
