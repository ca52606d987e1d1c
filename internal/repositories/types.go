package repositories

import "hobbyd/internal/models"

const (
	KindUsers    = "users"
	KindHobbies  = "hobbies"
	KindSessions = "sessions"
)

// SaveUserInput contains parameters for saving a user
type SaveUserInput struct {
	User *models.User
}

// GetUserInput contains parameters for retrieving a user
type GetUserInput struct {
	UserID string
}

// SaveHobbyInput contains parameters for saving a hobby
type SaveHobbyInput struct {
	Hobby *models.Hobby
}

// GetHobbyInput contains parameters for retrieving a hobby
type GetHobbyInput struct {
	HobbyID string
}

// ListHobbiesInput contains parameters for listing the hobbies of a user
type ListHobbiesInput struct {
	UserID string
}

// ListHobbiesOutput contains the hobbies of a user
type ListHobbiesOutput struct {
	Hobbies []*models.Hobby
}

// DeleteHobbyInput contains parameters for deleting a hobby
type DeleteHobbyInput struct {
	UserID  string
	HobbyID string
}

// DeleteHobbyOutput reports what a cascade delete removed
type DeleteHobbyOutput struct {
	DeletedSessions int
}

// SaveSessionInput contains parameters for saving a session
type SaveSessionInput struct {
	Session *models.Session
}

// GetSessionInput contains parameters for retrieving a session
type GetSessionInput struct {
	SessionID string
}

// DeleteSessionInput contains parameters for deleting a session
type DeleteSessionInput struct {
	SessionID string
}

// ListSessionsInput filters the sessions of a user. HobbyID narrows the
// result to one hobby; a positive Limit keeps only the newest sessions.
type ListSessionsInput struct {
	UserID  string
	HobbyID string
	Limit   int
}

// ListSessionsOutput contains the matching sessions
type ListSessionsOutput struct {
	Sessions []*models.Session
}

// CountsOutput holds record totals keyed by kind
type CountsOutput struct {
	Totals map[string]int
}
