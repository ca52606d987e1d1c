package repositories

import (
	"context"
	"errors"

	"hobbyd/internal/models"
)

// ErrNotFound is returned when a user, hobby or session does not exist.
var ErrNotFound = errors.New("record not found")

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go hobbyd/internal/repositories Repository

// Repository is the record store the tracker reads from and writes to.
// Every backend keeps the same ordering guarantees: hobbies newest first,
// sessions by date descending.
type Repository interface {
	// SaveUser inserts or replaces a user profile
	SaveUser(ctx context.Context, input *SaveUserInput) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, input *GetUserInput) (*models.User, error)

	// SaveHobby stores a hobby and records its id on the owning user
	SaveHobby(ctx context.Context, input *SaveHobbyInput) error

	// GetHobby retrieves a hobby by ID
	GetHobby(ctx context.Context, input *GetHobbyInput) (*models.Hobby, error)

	// ListHobbies returns the hobbies of a user, newest first
	ListHobbies(ctx context.Context, input *ListHobbiesInput) (*ListHobbiesOutput, error)

	// DeleteHobby removes a hobby, its sessions and its id on the user
	DeleteHobby(ctx context.Context, input *DeleteHobbyInput) (*DeleteHobbyOutput, error)

	// SaveSession stores a practice session
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// DeleteSession removes a single session
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error

	// ListSessions returns the sessions of a user, date descending
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// Counts reports the number of stored records per kind
	Counts(ctx context.Context) (*CountsOutput, error)

	Close() error
}

// Snapshotter is implemented by stores that live in memory and are
// persisted as a whole.
type Snapshotter interface {
	Snapshot() *models.Storage
	Restore(storage *models.Storage) error
}
