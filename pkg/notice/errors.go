package notice

import "errors"

var (
	// ErrLastScheduleRow is returned when removing the only schedule row.
	ErrLastScheduleRow = errors.New("notice: the schedule table must keep at least one row")
	// ErrLastOptionalHeader is returned when removing the only optional header.
	ErrLastOptionalHeader = errors.New("notice: at least one optional header row must remain")
	// ErrRowIndex is returned for positional operations outside the sequence.
	ErrRowIndex = errors.New("notice: row index out of range")
	// ErrUnknownField is returned when a field name is not part of the document.
	ErrUnknownField = errors.New("notice: unknown field")
	// ErrInvalidValue is returned when a value is outside a field's allowed set.
	ErrInvalidValue = errors.New("notice: invalid field value")
)
