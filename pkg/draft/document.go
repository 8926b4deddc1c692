package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-changenotice/pkg/notice"
	"github.com/goliatone/go-changenotice/pkg/schedule"
)

// Document is the persisted form of a notice.FormState.
type Document struct {
	TopHeader       string                  `json:"topHeader"`
	Title           string                  `json:"header1"`
	Meta            string                  `json:"header2"`
	Description     string                  `json:"changeDescription"`
	Impact          string                  `json:"impactText"`
	Questions       string                  `json:"questionsText"`
	Rows            []notice.ScheduleRow    `json:"tableData"`
	OptionalHeaders []notice.OptionalHeader `json:"optionalHeadersData"`
	InternalFooter  string                  `json:"internalFooter"`
}

// FromState captures every field of state.
func FromState(state *notice.FormState) Document {
	if state == nil {
		return Document{}
	}
	return Document{
		TopHeader:       state.TopHeader,
		Title:           state.Title,
		Meta:            state.Meta,
		Description:     state.Description,
		Impact:          state.Impact,
		Questions:       state.Questions,
		Rows:            append([]notice.ScheduleRow{}, state.Rows...),
		OptionalHeaders: append([]notice.OptionalHeader{}, state.OptionalHeaders...),
		InternalFooter:  state.InternalFooter,
	}
}

// UnmarshalJSON fills in the default banners only when their keys are absent
// from the payload; a stored empty banner stays empty.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	aux := struct {
		*plain
		TopHeader      *string `json:"topHeader"`
		InternalFooter *string `json:"internalFooter"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.TopHeader = notice.DefaultTopHeader
	if aux.TopHeader != nil {
		d.TopHeader = *aux.TopHeader
	}
	d.InternalFooter = notice.DefaultInternalFooter
	if aux.InternalFooter != nil {
		d.InternalFooter = *aux.InternalFooter
	}
	return nil
}

// State rebuilds a form state from the document. The schedule and optional
// header lists are topped up to one entry each so the result always satisfies
// the structural minimums.
func (d Document) State() *notice.FormState {
	state := &notice.FormState{
		TopHeader:       d.TopHeader,
		Title:           d.Title,
		Meta:            d.Meta,
		Description:     d.Description,
		Impact:          d.Impact,
		Questions:       d.Questions,
		InternalFooter:  d.InternalFooter,
		Rows:            append([]notice.ScheduleRow(nil), d.Rows...),
		OptionalHeaders: append([]notice.OptionalHeader(nil), d.OptionalHeaders...),
	}
	state.EnsureStructure()
	return state
}

// Encode serializes the document as indented JSON.
func (d Document) Encode() ([]byte, error) {
	payload, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("draft: encode: %w", err)
	}
	return payload, nil
}

// Decode parses a stored payload. The payload is checked against the draft
// schema first; any failure is reported as ErrMalformedDraft and no partial
// document is returned.
func Decode(payload []byte) (Document, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("%w: empty payload", ErrMalformedDraft)
	}
	if err := checkSchema(trimmed); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	for i, row := range doc.Rows {
		if err := checkRow(row); err != nil {
			return Document{}, fmt.Errorf("%w: tableData.%d: %v", ErrMalformedDraft, i, err)
		}
	}
	return doc, nil
}

func checkRow(row notice.ScheduleRow) error {
	if _, err := notice.ParseRegion(string(row.Region)); err != nil {
		return err
	}
	if _, err := notice.ParseEnvironment(string(row.Environment)); err != nil {
		return err
	}
	if _, err := notice.ParseStatus(string(row.Status)); err != nil {
		return err
	}
	for _, raw := range []string{row.StartTime, row.EndTime} {
		if raw == "" {
			continue
		}
		if _, err := schedule.ParseCanonical(raw); err != nil {
			return err
		}
	}
	return nil
}
