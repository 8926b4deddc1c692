package schedule

import (
	"fmt"
	"time"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

// Update reports the effect of writing a picked time onto a row.
type Update struct {
	// Value is the canonical string written to the row.
	Value string
	// EndMinimum is set when the start changed: the earliest end time the
	// paired picker should accept.
	EndMinimum string
	// Order is the re-evaluated start/end relationship of the row.
	Order OrderCheck
}

// Apply normalizes sel, stores it on the row's start or end field and
// re-checks the row's ordering. The row is left untouched on error.
func Apply(row *notice.ScheduleRow, field string, sel Selection, loc *time.Location) (Update, error) {
	if row == nil {
		return Update{}, fmt.Errorf("schedule: row is required")
	}
	if field != notice.RowFieldStartTime && field != notice.RowFieldEndTime {
		return Update{}, fmt.Errorf("%w: %q is not a time field", notice.ErrUnknownField, field)
	}

	value, err := Normalize(sel, loc)
	if err != nil {
		return Update{}, err
	}

	update := Update{Value: value}
	if field == notice.RowFieldStartTime {
		row.StartTime = value
		minimum, err := EndMinimum(value)
		if err != nil {
			return Update{}, err
		}
		update.EndMinimum = minimum
	} else {
		row.EndTime = value
	}
	update.Order = CheckOrder(row.StartTime, row.EndTime)
	return update, nil
}
