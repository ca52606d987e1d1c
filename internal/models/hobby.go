package models

import "time"

const DefaultHobbyIcon = "🎯"

type Hobby struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HobbyWithStats is a hobby decorated with its derived statistics for
// overview listings.
type HobbyWithStats struct {
	*Hobby
	Stats HobbyStats `json:"stats"`
}
