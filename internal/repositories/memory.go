package repositories

import (
	"context"
	"fmt"
	"sync"

	"hobbyd/internal/models"
)

// memoryRepository keeps every record in maps guarded by one lock. It is
// persisted as a whole through Snapshot and Restore.
type memoryRepository struct {
	mu       sync.RWMutex
	users    map[string]*models.User
	hobbies  map[string]*models.Hobby
	sessions map[string]*models.Session
}

func NewMemory() *memoryRepository {
	return &memoryRepository{
		users:    make(map[string]*models.User),
		hobbies:  make(map[string]*models.Hobby),
		sessions: make(map[string]*models.Session),
	}
}

func (r *memoryRepository) SaveUser(_ context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil || input.User.ID == "" {
		return errEmptyInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[input.User.ID] = copyUser(input.User)
	return nil
}

func (r *memoryRepository) GetUser(_ context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[input.UserID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memoryRepository) SaveHobby(_ context.Context, input *SaveHobbyInput) error {
	if input == nil || input.Hobby == nil || input.Hobby.ID == "" {
		return errEmptyInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[input.Hobby.UserID]
	if !ok {
		return fmt.Errorf("owner %s: %w", input.Hobby.UserID, ErrNotFound)
	}
	r.hobbies[input.Hobby.ID] = copyHobby(input.Hobby)
	u.AddHobby(input.Hobby.ID)
	return nil
}

func (r *memoryRepository) GetHobby(_ context.Context, input *GetHobbyInput) (*models.Hobby, error) {
	if input == nil || input.HobbyID == "" {
		return nil, errEmptyInput
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hobbies[input.HobbyID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyHobby(h), nil
}

func (r *memoryRepository) ListHobbies(_ context.Context, input *ListHobbiesInput) (*ListHobbiesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	r.mu.RLock()
	hobbies := make([]*models.Hobby, 0)
	for _, h := range r.hobbies {
		if h.UserID == input.UserID {
			hobbies = append(hobbies, copyHobby(h))
		}
	}
	r.mu.RUnlock()

	sortHobbies(hobbies)
	return &ListHobbiesOutput{Hobbies: hobbies}, nil
}

func (r *memoryRepository) DeleteHobby(_ context.Context, input *DeleteHobbyInput) (*DeleteHobbyOutput, error) {
	if input == nil || input.HobbyID == "" || input.UserID == "" {
		return nil, errEmptyInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hobbies[input.HobbyID]
	if !ok || h.UserID != input.UserID {
		return nil, ErrNotFound
	}

	deleted := 0
	for id, s := range r.sessions {
		if s.HobbyID == input.HobbyID && s.UserID == input.UserID {
			delete(r.sessions, id)
			deleted++
		}
	}
	if u, ok := r.users[input.UserID]; ok {
		u.RemoveHobby(input.HobbyID)
	}
	delete(r.hobbies, input.HobbyID)

	return &DeleteHobbyOutput{DeletedSessions: deleted}, nil
}

func (r *memoryRepository) SaveSession(_ context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil || input.Session.ID == "" {
		return errEmptyInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[input.Session.ID] = copySession(input.Session)
	return nil
}

func (r *memoryRepository) GetSession(_ context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errEmptyInput
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[input.SessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s), nil
}

func (r *memoryRepository) DeleteSession(_ context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errEmptyInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[input.SessionID]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, input.SessionID)
	return nil
}

func (r *memoryRepository) ListSessions(_ context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	r.mu.RLock()
	sessions := make([]*models.Session, 0)
	for _, s := range r.sessions {
		if s.UserID != input.UserID {
			continue
		}
		if input.HobbyID != "" && s.HobbyID != input.HobbyID {
			continue
		}
		sessions = append(sessions, copySession(s))
	}
	r.mu.RUnlock()

	return &ListSessionsOutput{Sessions: finishSessions(sessions, input.Limit)}, nil
}

func (r *memoryRepository) Counts(_ context.Context) (*CountsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &CountsOutput{Totals: map[string]int{
		KindUsers:    len(r.users),
		KindHobbies:  len(r.hobbies),
		KindSessions: len(r.sessions),
	}}, nil
}

func (r *memoryRepository) Close() error {
	return nil
}

// Snapshot returns a deep copy of every record.
func (r *memoryRepository) Snapshot() *models.Storage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storage := models.NewStorage()
	for _, u := range r.users {
		storage.Users = append(storage.Users, copyUser(u))
	}
	for _, h := range r.hobbies {
		storage.Hobbies = append(storage.Hobbies, copyHobby(h))
	}
	for _, s := range r.sessions {
		storage.Sessions = append(storage.Sessions, copySession(s))
	}
	return storage
}

// Restore replaces the whole store with the content of storage.
func (r *memoryRepository) Restore(storage *models.Storage) error {
	if storage == nil {
		return fmt.Errorf("nil storage")
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("unsupported storage version %d", storage.Version)
	}

	users := make(map[string]*models.User, len(storage.Users))
	hobbies := make(map[string]*models.Hobby, len(storage.Hobbies))
	sessions := make(map[string]*models.Session, len(storage.Sessions))
	for _, u := range storage.Users {
		if u != nil && u.ID != "" {
			users[u.ID] = copyUser(u)
		}
	}
	for _, h := range storage.Hobbies {
		if h != nil && h.ID != "" {
			hobbies[h.ID] = copyHobby(h)
		}
	}
	for _, s := range storage.Sessions {
		if s != nil && s.ID != "" {
			sessions[s.ID] = copySession(s)
		}
	}

	r.mu.Lock()
	r.users, r.hobbies, r.sessions = users, hobbies, sessions
	r.mu.Unlock()
	return nil
}
