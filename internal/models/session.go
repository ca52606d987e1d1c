package models

import (
	"sort"
	"time"
)

// Session is one logged practice interval. Date is a civil YYYY-MM-DD day
// and carries no time of day or zone.
type Session struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	HobbyID         string    `json:"hobbyId" db:"hobby_id"`
	Date            string    `json:"date" db:"date"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// SessionWithHobby is a session row annotated for recent-activity lists.
type SessionWithHobby struct {
	*Session
	HobbyName string `json:"hobbyName"`
	HobbyIcon string `json:"hobbyIcon"`
}

// SortSessions orders newest first. Same-day sessions fall back to creation
// time, then id, so every store returns the same order.
func SortSessions(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
