// Package schedule converts operator-selected local date/times into the
// canonical UTC strings stored on schedule rows and checks that a change
// window starts before it ends.
package schedule
