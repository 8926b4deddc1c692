package notice

import "strings"

// Region identifies the site a change window applies to.
type Region string

const (
	RegionHK Region = "HK"
	RegionUK Region = "UK"
	RegionUS Region = "US"
)

// Regions lists the selectable regions in display order.
func Regions() []Region {
	return []Region{RegionHK, RegionUK, RegionUS}
}

// Environment identifies the deployment tier of a change window.
type Environment string

const (
	EnvironmentProd    Environment = "Prod"
	EnvironmentPreprod Environment = "Preprod"
)

// Environments lists the selectable environments in display order.
func Environments() []Environment {
	return []Environment{EnvironmentProd, EnvironmentPreprod}
}

// Status is the display value of a change window's progress. Values keep the
// spacing operators see ("In Progress"); use Key for comparisons.
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusPostponed  Status = "Postponed"
	StatusToStart    Status = "To Start"
)

// Statuses lists the selectable statuses in display order.
func Statuses() []Status {
	return []Status{StatusCompleted, StatusInProgress, StatusPostponed, StatusToStart}
}

// Key folds the status into its comparison form: lower case with all spaces
// removed, so "In Progress", "inprogress" and "IN PROGRESS" share a key.
func (s Status) Key() string {
	return strings.ToLower(strings.ReplaceAll(string(s), " ", ""))
}

// Known reports whether the status maps onto one of the selectable values.
func (s Status) Known() bool {
	key := s.Key()
	for _, candidate := range Statuses() {
		if candidate.Key() == key {
			return true
		}
	}
	return false
}

// Canonical returns the display form for a recognised status, or the trimmed
// input when it does not match any selectable value.
func (s Status) Canonical() Status {
	key := s.Key()
	for _, candidate := range Statuses() {
		if candidate.Key() == key {
			return candidate
		}
	}
	return Status(strings.TrimSpace(string(s)))
}

// ScheduleRow is one change window in the schedule table.
type ScheduleRow struct {
	ChangeID    string      `json:"chg"`
	Region      Region      `json:"region"`
	Environment Environment `json:"environment"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Status      Status      `json:"status"`
}

// Complete reports whether every field required for a usable row is set.
// Status is optional.
func (r ScheduleRow) Complete() bool {
	return strings.TrimSpace(r.ChangeID) != "" &&
		strings.TrimSpace(string(r.Region)) != "" &&
		strings.TrimSpace(string(r.Environment)) != "" &&
		strings.TrimSpace(r.StartTime) != "" &&
		strings.TrimSpace(r.EndTime) != ""
}

// OptionalHeader is an operator-defined extra section of the email.
type OptionalHeader struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Renderable reports whether the section carries both a name and content.
func (h OptionalHeader) Renderable() bool {
	return h.Name != "" && h.Content != ""
}
