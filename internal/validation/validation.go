// Package validation holds the input guards applied before records reach a
// store. The predicates never fail loudly; they only answer true or false.
package validation

import (
	"strings"
	"unicode/utf8"

	"hobbyd/internal/calendar"
)

const (
	MinSessionMinutes = 1
	MaxSessionMinutes = 24 * 60

	MinNameLength = 2
	MaxNameLength = 50
)

func ValidateSessionDuration(minutes int) bool {
	return minutes >= MinSessionMinutes && minutes <= MaxSessionMinutes
}

// ValidateSessionDate accepts a well-formed civil date that is not after today.
func ValidateSessionDate(dateStr string, today calendar.Date) bool {
	d, err := calendar.Parse(dateStr)
	if err != nil {
		return false
	}
	return !d.After(today)
}

// ValidateDateFormat only checks that dateStr names a real calendar day.
func ValidateDateFormat(dateStr string) bool {
	_, err := calendar.Parse(dateStr)
	return err == nil
}

// ValidateHobbyName counts characters, not bytes, of the trimmed name.
// User profile names follow the same rule.
func ValidateHobbyName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= MinNameLength && n <= MaxNameLength
}
