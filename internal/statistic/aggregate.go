package statistic

import (
	"strings"

	"github.com/montanaflynn/stats"

	"hobbyd/internal/calendar"
	"hobbyd/internal/models"
)

// Window bounds a recent-activity query in days.
type Window int

const (
	// AllTime disables the date bound.
	AllTime Window = -1

	DefaultRecentWindow Window = 30
)

// HobbyLookup resolves a hobby id; ok is false for hobbies that no longer exist.
type HobbyLookup func(id string) (hobby *models.Hobby, ok bool)

func LookupFromSlice(hobbies []*models.Hobby) HobbyLookup {
	index := make(map[string]*models.Hobby, len(hobbies))
	for _, h := range hobbies {
		if h != nil {
			index[h.ID] = h
		}
	}
	return func(id string) (*models.Hobby, bool) {
		h, ok := index[id]
		return h, ok
	}
}

// roundHours converts minutes to hours with half-up rounding to two places.
// Minutes are summed as integers first, so no intermediate value is rounded.
func roundHours(minutes int) float64 {
	return round2(float64(minutes) / 60)
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return 0
	}
	return r
}

func sumMinutes(sessions []*models.Session) int {
	total := 0
	for _, s := range sessions {
		if s != nil {
			total += s.DurationMinutes
		}
	}
	return total
}

func TotalHours(sessions []*models.Session) float64 {
	return roundHours(sumMinutes(sessions))
}

func countSessions(sessions []*models.Session) int {
	n := 0
	for _, s := range sessions {
		if s != nil {
			n++
		}
	}
	return n
}

func dates(sessions []*models.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			out = append(out, s.Date)
		}
	}
	return out
}

// ComputeHobbyStats expects the sessions of a single hobby.
func ComputeHobbyStats(sessions []*models.Session, today calendar.Date) models.HobbyStats {
	current, longest := Streaks(dates(sessions), today)
	return models.HobbyStats{
		TotalHours:    TotalHours(sessions),
		TotalSessions: countSessions(sessions),
		CurrentStreak: current,
		LongestStreak: longest,
	}
}

// GroupByHobby buckets sessions by hobby id, keeping input order per bucket.
func GroupByHobby(sessions []*models.Session) map[string][]*models.Session {
	groups := make(map[string][]*models.Session)
	for _, s := range sessions {
		if s != nil {
			groups[s.HobbyID] = append(groups[s.HobbyID], s)
		}
	}
	return groups
}

// Resolved drops sessions whose hobby cannot be found.
func Resolved(sessions []*models.Session, lookup HobbyLookup) []*models.Session {
	out := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if _, ok := lookup(s.HobbyID); ok {
			out = append(out, s)
		}
	}
	return out
}

// MostPracticedHobby picks the resolvable hobby with the greatest total time.
// Equal totals go to the hobby whose name sorts first (case-insensitive),
// then to the lower id, so the result never depends on input order.
func MostPracticedHobby(sessions []*models.Session, lookup HobbyLookup) *models.MostPracticedHobby {
	var (
		best        *models.Hobby
		bestMinutes int
	)

	for id, group := range GroupByHobby(sessions) {
		hobby, ok := lookup(id)
		if !ok || hobby == nil {
			continue
		}
		minutes := sumMinutes(group)
		if best == nil || minutes > bestMinutes || (minutes == bestMinutes && hobbyNameLess(hobby, best)) {
			best = hobby
			bestMinutes = minutes
		}
	}

	if best == nil {
		return nil
	}
	return &models.MostPracticedHobby{
		ID:    best.ID,
		Name:  best.Name,
		Icon:  best.Icon,
		Hours: roundHours(bestMinutes),
	}
}

func hobbyNameLess(a, b *models.Hobby) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}

// RecentSessions keeps the sessions dated on or after today minus window
// days. AllTime, or any negative window, keeps every session; a bounded
// window drops sessions whose date does not parse.
func RecentSessions(sessions []*models.Session, window Window, today calendar.Date) []*models.Session {
	out := make([]*models.Session, 0, len(sessions))
	if window < 0 {
		for _, s := range sessions {
			if s != nil {
				out = append(out, s)
			}
		}
		return out
	}

	cutoff := today.AddDays(-int(window))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		d, err := calendar.Parse(s.Date)
		if err != nil || d.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SessionsBetween keeps sessions dated within [from, to].
func SessionsBetween(sessions []*models.Session, from, to calendar.Date) []*models.Session {
	out := make([]*models.Session, 0)
	for _, s := range sessions {
		if s == nil {
			continue
		}
		d, err := calendar.Parse(s.Date)
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// WithHobbies annotates sessions with hobby name and icon, dropping orphans.
func WithHobbies(sessions []*models.Session, lookup HobbyLookup) []*models.SessionWithHobby {
	out := make([]*models.SessionWithHobby, 0, len(sessions))
	for _, s := range sessions {
		if s == nil {
			continue
		}
		hobby, ok := lookup(s.HobbyID)
		if !ok || hobby == nil {
			continue
		}
		icon := hobby.Icon
		if icon == "" {
			icon = models.DefaultHobbyIcon
		}
		out = append(out, &models.SessionWithHobby{Session: s, HobbyName: hobby.Name, HobbyIcon: icon})
	}
	return out
}

func averageMinutes(sessions []*models.Session) float64 {
	durations := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			durations = append(durations, float64(s.DurationMinutes))
		}
	}
	mean, err := stats.Mean(durations)
	if err != nil {
		return 0
	}
	return round2(mean)
}

// ComputeSummary rolls up every session of a user. Sessions whose hobby is
// gone are ignored throughout, matching the cascade-delete contract.
func ComputeSummary(hobbies []*models.Hobby, sessions []*models.Session, today calendar.Date) models.StatsSummary {
	lookup := LookupFromSlice(hobbies)
	resolved := Resolved(sessions, lookup)

	best := 0
	for _, group := range GroupByHobby(resolved) {
		if l := LongestStreak(dates(group)); l > best {
			best = l
		}
	}

	return models.StatsSummary{
		TotalHobbies:       countHobbies(hobbies),
		TotalHours:         TotalHours(resolved),
		TotalSessions:      len(resolved),
		AvgSessionMinutes:  averageMinutes(resolved),
		BestStreak:         best,
		ThisWeekHours:      TotalHours(SessionsBetween(resolved, today.AddDays(-6), today)),
		PrevWeekHours:      TotalHours(SessionsBetween(resolved, today.AddDays(-13), today.AddDays(-7))),
		MostPracticedHobby: MostPracticedHobby(resolved, lookup),
	}
}

func countHobbies(hobbies []*models.Hobby) int {
	n := 0
	for _, h := range hobbies {
		if h != nil {
			n++
		}
	}
	return n
}
