package notice

import (
	"fmt"
	"strings"
)

const (
	// DefaultTopHeader is the banner text of a fresh document.
	DefaultTopHeader = "DEAR USERS OF SHP PLATFORM"
	// DefaultInternalFooter is the classification banner of a fresh document.
	DefaultInternalFooter = "INTERNAL"
	// PlaceholderTopHeader is the unedited greeting the validator rejects.
	PlaceholderTopHeader = "Dear"
)

// FormState is the complete editable document. A single owner mutates it;
// the methods below are not safe for concurrent use.
type FormState struct {
	TopHeader       string
	Title           string
	Meta            string
	Description     string
	Impact          string
	Questions       string
	InternalFooter  string
	Rows            []ScheduleRow
	OptionalHeaders []OptionalHeader
}

// New returns the document an operator starts from: default banners, one
// empty schedule row and one empty optional header.
func New() *FormState {
	return &FormState{
		TopHeader:       DefaultTopHeader,
		InternalFooter:  DefaultInternalFooter,
		Rows:            []ScheduleRow{{}},
		OptionalHeaders: []OptionalHeader{{}},
	}
}

// Clone returns a deep copy of the state.
func (s *FormState) Clone() *FormState {
	if s == nil {
		return nil
	}
	out := *s
	out.Rows = append([]ScheduleRow(nil), s.Rows...)
	out.OptionalHeaders = append([]OptionalHeader(nil), s.OptionalHeaders...)
	return &out
}

// EnsureStructure restores the structural minimums: at least one schedule row
// and at least one optional header. It reports whether anything was added.
func (s *FormState) EnsureStructure() bool {
	changed := false
	if len(s.Rows) == 0 {
		s.Rows = append(s.Rows, ScheduleRow{})
		changed = true
	}
	if len(s.OptionalHeaders) == 0 {
		s.OptionalHeaders = append(s.OptionalHeaders, OptionalHeader{})
		changed = true
	}
	return changed
}

// AddRow appends an empty schedule row and returns its index.
func (s *FormState) AddRow() int {
	s.Rows = append(s.Rows, ScheduleRow{})
	return len(s.Rows) - 1
}

// RemoveRow deletes the schedule row at index. Removing the last remaining row
// is refused with ErrLastScheduleRow and leaves the table untouched.
func (s *FormState) RemoveRow(index int) error {
	if index < 0 || index >= len(s.Rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	if len(s.Rows) <= 1 {
		return ErrLastScheduleRow
	}
	s.Rows = append(s.Rows[:index], s.Rows[index+1:]...)
	return nil
}

// AddOptionalHeader appends an empty optional header and returns its index.
func (s *FormState) AddOptionalHeader() int {
	s.OptionalHeaders = append(s.OptionalHeaders, OptionalHeader{})
	return len(s.OptionalHeaders) - 1
}

// RemoveOptionalHeader deletes the optional header at index, refusing to drop
// the last one.
func (s *FormState) RemoveOptionalHeader(index int) error {
	if index < 0 || index >= len(s.OptionalHeaders) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	if len(s.OptionalHeaders) <= 1 {
		return ErrLastOptionalHeader
	}
	s.OptionalHeaders = append(s.OptionalHeaders[:index], s.OptionalHeaders[index+1:]...)
	return nil
}

// Field returns a document-level text field by name.
func (s *FormState) Field(name string) (string, error) {
	ptr, err := s.fieldRef(name)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// SetField replaces a document-level text field.
func (s *FormState) SetField(name, value string) error {
	ptr, err := s.fieldRef(name)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

func (s *FormState) fieldRef(name string) (*string, error) {
	switch name {
	case FieldTopHeader:
		return &s.TopHeader, nil
	case FieldTitle:
		return &s.Title, nil
	case FieldMeta:
		return &s.Meta, nil
	case FieldDescription:
		return &s.Description, nil
	case FieldImpact:
		return &s.Impact, nil
	case FieldQuestions:
		return &s.Questions, nil
	case FieldInternalFooter:
		return &s.InternalFooter, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// SetRowField updates one field of the schedule row at index. Region and
// environment must be empty or one of the selectable values; status is stored
// in its display form. Time fields are stored verbatim and are expected to be
// canonical strings produced by the schedule package.
func (s *FormState) SetRowField(index int, field, value string) error {
	if index < 0 || index >= len(s.Rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	row := &s.Rows[index]
	switch field {
	case RowFieldChangeID:
		row.ChangeID = value
	case RowFieldRegion:
		region, err := ParseRegion(value)
		if err != nil {
			return err
		}
		row.Region = region
	case RowFieldEnvironment:
		env, err := ParseEnvironment(value)
		if err != nil {
			return err
		}
		row.Environment = env
	case RowFieldStartTime:
		row.StartTime = strings.TrimSpace(value)
	case RowFieldEndTime:
		row.EndTime = strings.TrimSpace(value)
	case RowFieldStatus:
		status, err := ParseStatus(value)
		if err != nil {
			return err
		}
		row.Status = status
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// SetOptionalField updates the name or content of the optional header at index.
func (s *FormState) SetOptionalField(index int, field, value string) error {
	if index < 0 || index >= len(s.OptionalHeaders) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	header := &s.OptionalHeaders[index]
	switch field {
	case HeaderFieldName:
		header.Name = value
	case HeaderFieldContent:
		header.Content = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// ParseRegion accepts an empty value or one of the selectable regions.
func ParseRegion(raw string) (Region, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	for _, region := range Regions() {
		if strings.EqualFold(string(region), trimmed) {
			return region, nil
		}
	}
	return "", fmt.Errorf("%w: region %q", ErrInvalidValue, raw)
}

// ParseEnvironment accepts an empty value or one of the selectable environments.
func ParseEnvironment(raw string) (Environment, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	for _, env := range Environments() {
		if strings.EqualFold(string(env), trimmed) {
			return env, nil
		}
	}
	return "", fmt.Errorf("%w: environment %q", ErrInvalidValue, raw)
}

// ParseStatus accepts an empty value or any spelling of a selectable status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	if !status.Known() {
		return "", fmt.Errorf("%w: status %q", ErrInvalidValue, raw)
	}
	return status.Canonical(), nil
}
