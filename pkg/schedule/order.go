package schedule

import "strings"

// OrderCheck carries the two error indicators of a row's time pair.
type OrderCheck struct {
	StartErr bool `json:"startError"`
	EndErr   bool `json:"endError"`
}

// OK reports whether neither indicator is raised.
func (c OrderCheck) OK() bool {
	return !c.StartErr && !c.EndErr
}

// CheckOrder compares a start/end pair of canonical strings. A pair with an
// unset side is not yet invalid; values that do not parse are left to the
// required-field checks. Only start >= end raises both indicators.
func CheckOrder(start, end string) OrderCheck {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return OrderCheck{}
	}
	startAt, err := ParseCanonical(start)
	if err != nil {
		return OrderCheck{}
	}
	endAt, err := ParseCanonical(end)
	if err != nil {
		return OrderCheck{}
	}
	if !startAt.Before(endAt) {
		return OrderCheck{StartErr: true, EndErr: true}
	}
	return OrderCheck{}
}
