// Package prompt walks an operator through the change notice in the
// terminal, applying every answer through the editor controller.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-changenotice/internal/editor"
	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
)

const noneOption = "(none)"

const (
	choiceKeep = iota
	choiceEdit
	choiceRemove
)

var entryChoices = []string{"Keep", "Edit", "Remove"}

type documentPrompt struct {
	field     string
	label     string
	multiline bool
}

var documentPrompts = []documentPrompt{
	{notice.FieldTopHeader, "Top banner", false},
	{notice.FieldTitle, "Title", false},
	{notice.FieldMeta, "Subtitle", false},
	{notice.FieldDescription, "Change description", true},
	{notice.FieldImpact, "Impact", true},
	{notice.FieldQuestions, "Questions", true},
	{notice.FieldInternalFooter, "Internal footer", false},
}

// Session edits one controller's document through a Driver.
type Session struct {
	driver Driver
	editor *editor.Controller
}

// NewSession pairs a driver with a controller.
func NewSession(driver Driver, ctrl *editor.Controller) (*Session, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	if ctrl == nil {
		return nil, errors.New("prompt: controller is required")
	}
	return &Session{driver: driver, editor: ctrl}, nil
}

// Edit prompts for every section, validates the result and offers to save
// it. The returned outcome is the final validate or save-draft outcome.
func (s *Session) Edit(ctx context.Context) (editor.Outcome, error) {
	if err := s.editDocument(ctx); err != nil {
		return editor.Outcome{}, err
	}
	if err := s.editRows(ctx); err != nil {
		return editor.Outcome{}, err
	}
	if err := s.editOptionalHeaders(ctx); err != nil {
		return editor.Outcome{}, err
	}
	return s.finish(ctx)
}

func (s *Session) editDocument(ctx context.Context) error {
	state := s.editor.State()
	for _, p := range documentPrompts {
		current, err := state.Field(p.field)
		if err != nil {
			return err
		}
		var value string
		if p.multiline {
			value, err = s.driver.TextArea(ctx, TextAreaConfig{Message: p.label, Default: current})
		} else {
			value, err = s.driver.Input(ctx, InputConfig{Message: p.label, Default: current})
		}
		if err != nil {
			return err
		}
		if _, err := s.editor.Run(ctx, editor.ActionSetField, editor.Payload{Field: p.field, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) editRows(ctx context.Context) error {
	for i := 0; i < len(s.editor.State().Rows); {
		row := s.editor.State().Rows[i]
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("Schedule row %d: %s", i+1, rowSummary(row)),
			Options: entryChoices,
		})
		if err != nil {
			return err
		}
		switch choice {
		case choiceEdit:
			if err := s.editRow(ctx, i); err != nil {
				return err
			}
		case choiceRemove:
			outcome, err := s.editor.Run(ctx, editor.ActionRemoveRow, editor.Payload{Row: i})
			if err != nil {
				return err
			}
			if !outcome.Refused {
				continue
			}
			if err := s.driver.Info(ctx, outcome.Message); err != nil {
				return err
			}
		}
		i++
	}

	for {
		add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add a schedule row?"})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if _, err := s.editor.Run(ctx, editor.ActionAddRow, editor.Payload{}); err != nil {
			return err
		}
		if err := s.editRow(ctx, len(s.editor.State().Rows)-1); err != nil {
			return err
		}
	}
}

func (s *Session) editRow(ctx context.Context, index int) error {
	row := s.editor.State().Rows[index]
	loc := s.editor.Location()

	changeID, err := s.driver.Input(ctx, InputConfig{Message: "CHG#", Default: row.ChangeID})
	if err != nil {
		return err
	}
	region, err := s.choose(ctx, "Region", regionOptions(), string(row.Region))
	if err != nil {
		return err
	}
	env, err := s.choose(ctx, "Environment", environmentOptions(), string(row.Environment))
	if err != nil {
		return err
	}
	zone := loc.String()
	start, err := s.driver.Input(ctx, InputConfig{
		Message:   fmt.Sprintf("Start (YYYY-MM-DD HH:MM, %s)", zone),
		Default:   localTime(row.StartTime, loc),
		Validator: validateLocalTime,
	})
	if err != nil {
		return err
	}
	end, err := s.driver.Input(ctx, InputConfig{
		Message:   fmt.Sprintf("End (YYYY-MM-DD HH:MM, %s)", zone),
		Default:   localTime(row.EndTime, loc),
		Validator: validateLocalTime,
	})
	if err != nil {
		return err
	}
	status, err := s.choose(ctx, "Status", statusOptions(), string(row.Status))
	if err != nil {
		return err
	}

	edits := []struct{ field, value string }{
		{notice.RowFieldChangeID, changeID},
		{notice.RowFieldRegion, region},
		{notice.RowFieldEnvironment, env},
		{notice.RowFieldStartTime, start},
		{notice.RowFieldEndTime, end},
		{notice.RowFieldStatus, status},
	}
	var order *schedule.OrderCheck
	var last editor.Outcome
	for _, edit := range edits {
		outcome, err := s.editor.Run(ctx, editor.ActionSetRowField, editor.Payload{Row: index, Field: edit.field, Value: edit.value})
		if err != nil {
			return err
		}
		if outcome.Order != nil {
			order = outcome.Order
		}
		last = outcome
	}
	if order != nil && !order.OK() {
		if err := s.driver.Info(ctx, "Start time must be before end time"); err != nil {
			return err
		}
	}
	if len(last.RowIssues) == 0 {
		return nil
	}
	missing := make([]string, 0, len(last.RowIssues))
	for _, issue := range last.RowIssues {
		missing = append(missing, issue.Ref.Field)
	}
	return s.driver.Info(ctx, fmt.Sprintf("Row %d is missing: %s", index+1, strings.Join(missing, ", ")))
}

func (s *Session) editOptionalHeaders(ctx context.Context) error {
	for i := 0; i < len(s.editor.State().OptionalHeaders); {
		header := s.editor.State().OptionalHeaders[i]
		label := header.Name
		if label == "" {
			label = "(empty)"
		}
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("Optional section %d: %s", i+1, label),
			Options: entryChoices,
		})
		if err != nil {
			return err
		}
		switch choice {
		case choiceEdit:
			if err := s.editOptionalHeader(ctx, i); err != nil {
				return err
			}
		case choiceRemove:
			outcome, err := s.editor.Run(ctx, editor.ActionRemoveOptionalRow, editor.Payload{Row: i})
			if err != nil {
				return err
			}
			if !outcome.Refused {
				continue
			}
			if err := s.driver.Info(ctx, outcome.Message); err != nil {
				return err
			}
		}
		i++
	}

	for {
		add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add an optional section?"})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if _, err := s.editor.Run(ctx, editor.ActionAddOptionalRow, editor.Payload{}); err != nil {
			return err
		}
		if err := s.editOptionalHeader(ctx, len(s.editor.State().OptionalHeaders)-1); err != nil {
			return err
		}
	}
}

func (s *Session) editOptionalHeader(ctx context.Context, index int) error {
	header := s.editor.State().OptionalHeaders[index]
	name, err := s.driver.Input(ctx, InputConfig{Message: "Section name", Default: header.Name})
	if err != nil {
		return err
	}
	content, err := s.driver.TextArea(ctx, TextAreaConfig{Message: "Section content", Default: header.Content})
	if err != nil {
		return err
	}
	if _, err := s.editor.Run(ctx, editor.ActionSetOptionalField, editor.Payload{Row: index, Field: notice.HeaderFieldName, Value: name}); err != nil {
		return err
	}
	_, err = s.editor.Run(ctx, editor.ActionSetOptionalField, editor.Payload{Row: index, Field: notice.HeaderFieldContent, Value: content})
	return err
}

func (s *Session) finish(ctx context.Context) (editor.Outcome, error) {
	outcome, err := s.editor.Run(ctx, editor.ActionValidate, editor.Payload{})
	if err != nil {
		return editor.Outcome{}, err
	}
	if outcome.Rejected() {
		for _, line := range issueLines(outcome.Validation) {
			if err := s.driver.Info(ctx, line); err != nil {
				return editor.Outcome{}, err
			}
		}
		return outcome, s.driver.Info(ctx, "Draft not saved.")
	}

	save, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Save draft?", Default: true})
	if err != nil || !save {
		return outcome, err
	}
	outcome, err = s.editor.Run(ctx, editor.ActionSaveDraft, editor.Payload{})
	if err != nil {
		return editor.Outcome{}, err
	}
	return outcome, s.driver.Info(ctx, outcome.Message)
}

// choose prompts a select with a leading "(none)" entry and returns the
// picked value, "" for none.
func (s *Session) choose(ctx context.Context, message string, options []string, current string) (string, error) {
	all := append([]string{noneOption}, options...)
	def := 0
	for i, option := range options {
		if strings.EqualFold(option, current) {
			def = i + 1
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: all, DefaultIndex: def})
	if err != nil {
		return "", err
	}
	if idx <= 0 || idx >= len(all) {
		return "", nil
	}
	return all[idx], nil
}

func issueLines(report *editor.Report) []string {
	if report == nil {
		return nil
	}
	paths := make([]string, 0, len(report.Messages))
	for path := range report.Messages {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var lines []string
	for _, path := range paths {
		for _, msg := range report.Messages[path] {
			lines = append(lines, path+": "+msg)
		}
	}
	return lines
}

func rowSummary(row notice.ScheduleRow) string {
	parts := []string{row.ChangeID, string(row.Region), string(row.Environment), row.StartTime}
	var kept []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "(empty)"
	}
	return strings.Join(kept, " ")
}

// localTime shows a stored UTC time in loc for editing.
func localTime(canonical string, loc *time.Location) string {
	if strings.TrimSpace(canonical) == "" {
		return ""
	}
	at, err := schedule.ParseCanonical(canonical)
	if err != nil {
		return canonical
	}
	return at.In(loc).Format(schedule.Layout)
}

func validateLocalTime(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	_, err := schedule.ParseLocal(value)
	return err
}

func regionOptions() []string {
	out := make([]string, 0, len(notice.Regions()))
	for _, r := range notice.Regions() {
		out = append(out, string(r))
	}
	return out
}

func environmentOptions() []string {
	out := make([]string, 0, len(notice.Environments()))
	for _, e := range notice.Environments() {
		out = append(out, string(e))
	}
	return out
}

func statusOptions() []string {
	out := make([]string, 0, len(notice.Statuses()))
	for _, s := range notice.Statuses() {
		out = append(out, string(s))
	}
	return out
}
