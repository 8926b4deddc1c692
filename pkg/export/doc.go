// Package export writes the schedule table in formats other tools consume:
// CSV for spreadsheets and iCalendar for calendar clients.
package export
