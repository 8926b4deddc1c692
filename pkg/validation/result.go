package validation

import (
	"strconv"
	"strings"
)

// DocumentRow marks a FieldRef that points at a document-level field rather
// than a schedule row.
const DocumentRow = -1

// Issue codes.
const (
	CodeRequired       = "required"
	CodeNoCompleteRow  = "no_complete_row"
	CodeTimeOrder      = "time_order"
	CodePlaceholder    = "placeholder"
	CodeRowFieldMissed = "row_field_missing"
)

// FieldRef identifies an error indicator: a document field (Row ==
// DocumentRow) or one field of a schedule row.
type FieldRef struct {
	Field string `json:"field"`
	Row   int    `json:"row"`
}

// DocumentField builds a FieldRef for a document-level field.
func DocumentField(field string) FieldRef {
	return FieldRef{Field: field, Row: DocumentRow}
}

// RowField builds a FieldRef for a schedule row field.
func RowField(row int, field string) FieldRef {
	return FieldRef{Field: field, Row: row}
}

// Path renders the reference as a dotted path ("changeDescription",
// "tableData.2.startTime").
func (r FieldRef) Path() string {
	if r.Row == DocumentRow {
		return r.Field
	}
	return "tableData." + strconv.Itoa(r.Row) + "." + r.Field
}

// Issue is one failed rule bound to the indicator it should light up.
type Issue struct {
	Ref     FieldRef `json:"ref"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// Result is the outcome of Validate. Valid is the AND of every rule.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Has reports whether the referenced indicator should be shown.
func (r Result) Has(ref FieldRef) bool {
	for _, issue := range r.Issues {
		if issue.Ref == ref {
			return true
		}
	}
	return false
}

// Messages groups issue messages by dotted field path, trimming and
// de-duplicating while preserving order. HTTP and CLI surfaces use it to
// report errors keyed the same way the draft document is.
func (r Result) Messages() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range r.Issues {
		path := issue.Ref.Path()
		out[path] = normalizeMessages(append(out[path], issue.Message))
	}
	return out
}

func (r *Result) add(ref FieldRef, code, message string) {
	r.Issues = append(r.Issues, Issue{Ref: ref, Code: code, Message: message})
	r.Valid = false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
