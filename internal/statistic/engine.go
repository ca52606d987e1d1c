package statistic

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"hobbyd/internal/calendar"
	"hobbyd/internal/common/clock"
	"hobbyd/internal/models"
	"hobbyd/internal/structures"
)

// Engine binds the pure aggregation functions to a clock and a time zone,
// which together decide what "today" is.
type Engine struct {
	clock    clock.Clock
	location *time.Location
}

func NewEngine(conf *structures.Config, clk clock.Clock) (*Engine, error) {
	loc, err := LoadLocation(conf.Tracker.Timezone)
	if err != nil {
		return nil, err
	}
	return &Engine{clock: clk, location: loc}, nil
}

// LoadLocation treats an empty name as the process local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

func (e *Engine) Location() *time.Location {
	return e.location
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func (e *Engine) Today() calendar.Date {
	return calendar.Today(e.clock.Now(), e.location)
}

func (e *Engine) HobbyStats(sessions []*models.Session) models.HobbyStats {
	return ComputeHobbyStats(sessions, e.Today())
}

func (e *Engine) Summary(hobbies []*models.Hobby, sessions []*models.Session) models.StatsSummary {
	return ComputeSummary(hobbies, sessions, e.Today())
}

func (e *Engine) Recent(sessions []*models.Session, window Window) []*models.Session {
	return RecentSessions(sessions, window, e.Today())
}
