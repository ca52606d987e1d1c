package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hobbyd/internal/common/clock"
	"hobbyd/internal/common/clock/mocks"
	"hobbyd/internal/models"
	"hobbyd/internal/structures"
)

func engineConfig(tz string) *structures.Config {
	return &structures.Config{Tracker: structures.TrackerConfig{Timezone: tz}}
}

func TestNewEngine_UnknownTimezone(t *testing.T) {
	_, err := NewEngine(engineConfig("Mars/Olympus"), clock.New())
	assert.Error(t, err)
}

func TestLoadLocation_LocalAliases(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		loc, err := LoadLocation(name)
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}
}

func TestEngine_TodayFollowsTimezone(t *testing.T) {
	// 23:30 UTC on Jan 9 is already Jan 10 in Tokyo.
	instant := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)

	utc, err := NewEngine(engineConfig("UTC"), clock.Fixed(instant))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-09", utc.Today().String())

	tokyo, err := NewEngine(engineConfig("Asia/Tokyo"), clock.Fixed(instant))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", tokyo.Today().String())
	assert.Equal(t, "Asia/Tokyo", tokyo.Location().String())
}

func TestEngine_HobbyStatsUsesClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)).AnyTimes()

	e, err := NewEngine(engineConfig("UTC"), clk)
	require.NoError(t, err)

	sessions := []*models.Session{
		session("s1", "h1", "2024-01-09", 60),
		session("s2", "h1", "2024-01-08", 30),
	}
	assert.Equal(t, models.HobbyStats{TotalHours: 1.5, TotalSessions: 2, CurrentStreak: 2, LongestStreak: 2}, e.HobbyStats(sessions))

	// Two days later the streak is broken but the record stays.
	clk2 := mocks.NewMockClock(ctrl)
	clk2.EXPECT().Now().Return(time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC)).AnyTimes()
	e2, err := NewEngine(engineConfig("UTC"), clk2)
	require.NoError(t, err)
	got := e2.HobbyStats(sessions)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
}

func TestEngine_RecentAndSummary(t *testing.T) {
	e, err := NewEngine(engineConfig("UTC"), clock.Fixed(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	hobbies := []*models.Hobby{hobby("h1", "Guitar", "🎸")}
	sessions := []*models.Session{
		session("s1", "h1", "2024-01-31", 30),
		session("s2", "h1", "2023-11-01", 30),
	}

	assert.Len(t, e.Recent(sessions, DefaultRecentWindow), 1)
	assert.Len(t, e.Recent(sessions, AllTime), 2)

	summary := e.Summary(hobbies, sessions)
	assert.Equal(t, 1.0, summary.TotalHours)
	assert.Equal(t, 0.5, summary.ThisWeekHours)
}
