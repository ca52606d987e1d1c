package models

// HobbyStats is derived from the sessions of a single hobby.
type HobbyStats struct {
	TotalHours    float64 `json:"totalHours"`
	TotalSessions int     `json:"totalSessions"`
	CurrentStreak int     `json:"currentStreak"`
	LongestStreak int     `json:"longestStreak"`
}

type MostPracticedHobby struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Icon  string  `json:"icon"`
	Hours float64 `json:"hours"`
}

// StatsSummary is derived from all sessions of one user.
type StatsSummary struct {
	TotalHobbies       int                 `json:"totalHobbies"`
	TotalHours         float64             `json:"totalHours"`
	TotalSessions      int                 `json:"totalSessions"`
	AvgSessionMinutes  float64             `json:"avgSessionMinutes"`
	BestStreak         int                 `json:"bestStreak"`
	ThisWeekHours      float64             `json:"thisWeekHours"`
	PrevWeekHours      float64             `json:"prevWeekHours"`
	MostPracticedHobby *MostPracticedHobby `json:"mostPracticedHobby"`
}
