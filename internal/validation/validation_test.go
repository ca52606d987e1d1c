package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyd/internal/calendar"
)

func TestValidateSessionDuration(t *testing.T) {
	assert.False(t, ValidateSessionDuration(0))
	assert.True(t, ValidateSessionDuration(1))
	assert.True(t, ValidateSessionDuration(90))
	assert.True(t, ValidateSessionDuration(1440))
	assert.False(t, ValidateSessionDuration(1441))
	assert.False(t, ValidateSessionDuration(-5))
}

func TestValidateSessionDate(t *testing.T) {
	today, err := calendar.Parse("2024-03-15")
	require.NoError(t, err)

	assert.True(t, ValidateSessionDate("2024-03-15", today))
	assert.True(t, ValidateSessionDate("2024-03-14", today))
	assert.True(t, ValidateSessionDate("1999-12-31", today))
	assert.False(t, ValidateSessionDate("2024-03-16", today))
	assert.False(t, ValidateSessionDate("2025-01-01", today))
}

func TestValidateSessionDate_RejectsInvalidDays(t *testing.T) {
	today, _ := calendar.Parse("2024-12-31")

	assert.False(t, ValidateSessionDate("2024-02-30", today))
	assert.False(t, ValidateSessionDate("2023-02-29", today))
	assert.False(t, ValidateSessionDate("2024-13-01", today))
	assert.False(t, ValidateSessionDate("2024-1-5", today))
	assert.False(t, ValidateSessionDate("", today))
	assert.True(t, ValidateSessionDate("2024-02-29", today))
}

func TestValidateDateFormat(t *testing.T) {
	assert.True(t, ValidateDateFormat("2100-01-01"))
	assert.False(t, ValidateDateFormat("2100-02-29"))
}

func TestValidateHobbyName(t *testing.T) {
	assert.False(t, ValidateHobbyName(""))
	assert.False(t, ValidateHobbyName("a"))
	assert.False(t, ValidateHobbyName("  a  "))
	assert.True(t, ValidateHobbyName("Go"))
	assert.True(t, ValidateHobbyName("  Guitar  "))
	assert.True(t, ValidateHobbyName(strings.Repeat("x", 50)))
	assert.False(t, ValidateHobbyName(strings.Repeat("x", 51)))
}

func TestValidateHobbyName_CountsCharacters(t *testing.T) {
	// 50 two-byte letters are still 50 characters.
	assert.True(t, ValidateHobbyName(strings.Repeat("é", 50)))
	assert.False(t, ValidateHobbyName(strings.Repeat("é", 51)))
	assert.True(t, ValidateHobbyName("囲碁"))
}
