package validation

import (
	"strings"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
)

// Validate evaluates every form rule against state:
//
//  1. description and impact are non-empty after trimming;
//  2. at least one schedule row has every required field set;
//  3. every row with both times set starts strictly before it ends;
//  4. the top header is not the unedited "Dear" placeholder.
//
// A nil state is reported as an empty document.
func Validate(state *notice.FormState) Result {
	if state == nil {
		state = &notice.FormState{}
	}
	result := Result{Valid: true}

	requireText(&result, notice.FieldDescription, state.Description, "Change description is required")
	requireText(&result, notice.FieldImpact, state.Impact, "Impact is required")

	if !hasCompleteRow(state.Rows) {
		result.add(
			DocumentField(notice.FieldSchedule),
			CodeNoCompleteRow,
			"At least one schedule row must have CHG#, region, environment, start and end time",
		)
	}

	for idx, row := range state.Rows {
		check := schedule.CheckOrder(row.StartTime, row.EndTime)
		if check.StartErr {
			result.add(RowField(idx, notice.RowFieldStartTime), CodeTimeOrder, "Start time must be before end time")
		}
		if check.EndErr {
			result.add(RowField(idx, notice.RowFieldEndTime), CodeTimeOrder, "End time must be after start time")
		}
	}

	if strings.TrimSpace(state.TopHeader) == notice.PlaceholderTopHeader {
		result.add(DocumentField(notice.FieldTopHeader), CodePlaceholder, "Top header still contains the placeholder greeting")
	}

	return result
}

// RowIssues reports the required fields left empty on one row. It mirrors the
// per-field highlighting an editor applies when a field loses focus and does
// not contribute to Validate.
func RowIssues(row notice.ScheduleRow, index int) []Issue {
	required := []struct {
		field string
		value string
	}{
		{notice.RowFieldChangeID, row.ChangeID},
		{notice.RowFieldRegion, string(row.Region)},
		{notice.RowFieldEnvironment, string(row.Environment)},
		{notice.RowFieldStartTime, row.StartTime},
		{notice.RowFieldEndTime, row.EndTime},
	}
	var out []Issue
	for _, item := range required {
		if strings.TrimSpace(item.value) != "" {
			continue
		}
		out = append(out, Issue{
			Ref:     RowField(index, item.field),
			Code:    CodeRowFieldMissed,
			Message: "This field is required",
		})
	}
	return out
}

func requireText(result *Result, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		result.add(DocumentField(field), CodeRequired, message)
	}
}

func hasCompleteRow(rows []notice.ScheduleRow) bool {
	for _, row := range rows {
		if row.Complete() {
			return true
		}
	}
	return false
}
