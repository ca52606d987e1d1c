package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"hobbyd/internal/common/uuid"
	"hobbyd/internal/models"
	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/statistic"
	"hobbyd/internal/structures"
	"hobbyd/internal/validation"
)

const (
	defaultRecentLimit      = 200
	defaultStatsConcurrency = 4
)

type TrackerServiceInterface interface {
	CreateUser(ctx context.Context, name, location string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListHobbies(ctx context.Context, userID string) ([]*models.Hobby, error)
	CreateHobby(ctx context.Context, userID, name, icon string) (*models.Hobby, error)
	DeleteHobby(ctx context.Context, userID, hobbyID string) (int, error)
	CreateSession(ctx context.Context, userID, hobbyID, date string, minutes int) (*models.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	RecentSessions(ctx context.Context, userID string, window statistic.Window) ([]*models.SessionWithHobby, error)
	HobbyStats(ctx context.Context, userID, hobbyID string) (*models.HobbyStats, error)
	HobbiesWithStats(ctx context.Context, userID string) ([]*models.HobbyWithStats, error)
	Summary(ctx context.Context, userID string) (*models.StatsSummary, error)
}

// TrackerService validates writes, enforces ownership and feeds stored
// records through the statistic engine.
type TrackerService struct {
	repo        repositories.Repository
	engine      *statistic.Engine
	ids         uuid.UUID
	logger      providers.Logger
	recentLimit int
	concurrency int
}

func NewTrackerService(conf *structures.Config, repo repositories.Repository, engine *statistic.Engine, ids uuid.UUID, logger providers.Logger) TrackerServiceInterface {
	limit := conf.Tracker.RecentLimit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	concurrency := conf.Tracker.StatsConcurrency
	if concurrency <= 0 {
		concurrency = defaultStatsConcurrency
	}
	return &TrackerService{
		repo:        repo,
		engine:      engine,
		ids:         ids,
		logger:      logger,
		recentLimit: limit,
		concurrency: concurrency,
	}
}

func (ts *TrackerService) CreateUser(ctx context.Context, name, location string) (*models.User, error) {
	req := &validation.CreateUserRequest{Name: name, Location: location}
	if err := validation.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user := &models.User{
		ID:        ts.ids.NewUUID(),
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
		CreatedAt: ts.engine.Now().UTC(),
		Hobbies:   []string{},
	}
	if err := ts.repo.SaveUser(ctx, &repositories.SaveUserInput{User: user}); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	ts.logger.Infof(providers.TypeStore, "Created user %s", user.ID)
	return user, nil
}

func (ts *TrackerService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, invalid(errors.New("user id is required"))
	}
	user, err := ts.repo.GetUser(ctx, &repositories.GetUserInput{UserID: userID})
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (ts *TrackerService) ListHobbies(ctx context.Context, userID string) ([]*models.Hobby, error) {
	if userID == "" {
		return nil, invalid(errors.New("user id is required"))
	}
	out, err := ts.repo.ListHobbies(ctx, &repositories.ListHobbiesInput{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list hobbies: %w", err)
	}
	return out.Hobbies, nil
}

func (ts *TrackerService) CreateHobby(ctx context.Context, userID, name, icon string) (*models.Hobby, error) {
	req := &validation.CreateHobbyRequest{UserID: userID, Name: name, Icon: icon}
	if err := validation.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if icon == "" {
		icon = models.DefaultHobbyIcon
	}

	now := ts.engine.Now().UTC()
	hobby := &models.Hobby{
		ID:        ts.ids.NewUUID(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ts.repo.SaveHobby(ctx, &repositories.SaveHobbyInput{Hobby: hobby}); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	ts.logger.Infof(providers.TypeStore, "Created hobby %s for user %s", hobby.ID, userID)
	return hobby, nil
}

// ownedHobby loads a hobby and checks that userID owns it.
func (ts *TrackerService) ownedHobby(ctx context.Context, userID, hobbyID string) (*models.Hobby, error) {
	if userID == "" || hobbyID == "" {
		return nil, invalid(errors.New("user and hobby ids are required"))
	}
	hobby, err := ts.repo.GetHobby(ctx, &repositories.GetHobbyInput{HobbyID: hobbyID})
	if err != nil {
		return nil, notFound(err, ErrHobbyNotFound)
	}
	if hobby.UserID != userID {
		return nil, ErrForbidden
	}
	return hobby, nil
}

// DeleteHobby removes the hobby with all of its sessions and reports how
// many sessions went with it.
func (ts *TrackerService) DeleteHobby(ctx context.Context, userID, hobbyID string) (int, error) {
	if _, err := ts.ownedHobby(ctx, userID, hobbyID); err != nil {
		return 0, err
	}
	out, err := ts.repo.DeleteHobby(ctx, &repositories.DeleteHobbyInput{UserID: userID, HobbyID: hobbyID})
	if err != nil {
		return 0, notFound(err, ErrHobbyNotFound)
	}
	ts.logger.Infof(providers.TypeStore, "Deleted hobby %s and %d sessions", hobbyID, out.DeletedSessions)
	return out.DeletedSessions, nil
}

func (ts *TrackerService) CreateSession(ctx context.Context, userID, hobbyID, date string, minutes int) (*models.Session, error) {
	req := &validation.CreateSessionRequest{UserID: userID, HobbyID: hobbyID, Date: date, DurationMinutes: minutes}
	if err := validation.Struct(req); err != nil {
		return nil, invalid(err)
	}
	if !validation.ValidateSessionDate(date, ts.engine.Today()) {
		return nil, invalid(fmt.Errorf("date %s is in the future", date))
	}
	if _, err := ts.ownedHobby(ctx, userID, hobbyID); err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:              ts.ids.NewUUID(),
		UserID:          userID,
		HobbyID:         hobbyID,
		Date:            date,
		DurationMinutes: minutes,
		CreatedAt:       ts.engine.Now().UTC(),
	}
	if err := ts.repo.SaveSession(ctx, &repositories.SaveSessionInput{Session: session}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	ts.logger.Debugf(providers.TypeStore, "Logged %d minutes on %s for hobby %s", minutes, date, hobbyID)
	return session, nil
}

func (ts *TrackerService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return invalid(errors.New("user and session ids are required"))
	}
	session, err := ts.repo.GetSession(ctx, &repositories.GetSessionInput{SessionID: sessionID})
	if err != nil {
		return notFound(err, ErrSessionNotFound)
	}
	if session.UserID != userID {
		return ErrForbidden
	}
	if err := ts.repo.DeleteSession(ctx, &repositories.DeleteSessionInput{SessionID: sessionID}); err != nil {
		return notFound(err, ErrSessionNotFound)
	}
	return nil
}

// RecentSessions returns the newest sessions of a user inside window,
// annotated with their hobby. The store cap applies before the window.
func (ts *TrackerService) RecentSessions(ctx context.Context, userID string, window statistic.Window) ([]*models.SessionWithHobby, error) {
	if userID == "" {
		return nil, invalid(errors.New("user id is required"))
	}
	hobbies, err := ts.ListHobbies(ctx, userID)
	if err != nil {
		return nil, err
	}
	out, err := ts.repo.ListSessions(ctx, &repositories.ListSessionsInput{UserID: userID, Limit: ts.recentLimit})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	recent := ts.engine.Recent(out.Sessions, window)
	return statistic.WithHobbies(recent, statistic.LookupFromSlice(hobbies)), nil
}

func (ts *TrackerService) HobbyStats(ctx context.Context, userID, hobbyID string) (*models.HobbyStats, error) {
	if _, err := ts.ownedHobby(ctx, userID, hobbyID); err != nil {
		return nil, err
	}
	stats, err := ts.hobbyStats(ctx, userID, hobbyID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ts *TrackerService) hobbyStats(ctx context.Context, userID, hobbyID string) (models.HobbyStats, error) {
	out, err := ts.repo.ListSessions(ctx, &repositories.ListSessionsInput{UserID: userID, HobbyID: hobbyID})
	if err != nil {
		return models.HobbyStats{}, fmt.Errorf("list sessions of hobby %s: %w", hobbyID, err)
	}
	return ts.engine.HobbyStats(out.Sessions), nil
}

// HobbiesWithStats computes the statistics of every hobby of a user
// concurrently. The result keeps the listing order of the hobbies.
func (ts *TrackerService) HobbiesWithStats(ctx context.Context, userID string) ([]*models.HobbyWithStats, error) {
	hobbies, err := ts.ListHobbies(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.HobbyWithStats, len(hobbies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ts.concurrency)
	for i, hobby := range hobbies {
		g.Go(func() error {
			stats, err := ts.hobbyStats(gctx, userID, hobby.ID)
			if err != nil {
				return err
			}
			result[i] = &models.HobbyWithStats{Hobby: hobby, Stats: stats}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (ts *TrackerService) Summary(ctx context.Context, userID string) (*models.StatsSummary, error) {
	if userID == "" {
		return nil, invalid(errors.New("user id is required"))
	}

	var (
		hobbies  []*models.Hobby
		sessions []*models.Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := ts.repo.ListHobbies(gctx, &repositories.ListHobbiesInput{UserID: userID})
		if err != nil {
			return fmt.Errorf("list hobbies: %w", err)
		}
		hobbies = out.Hobbies
		return nil
	})
	g.Go(func() error {
		out, err := ts.repo.ListSessions(gctx, &repositories.ListSessionsInput{UserID: userID})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		sessions = out.Sessions
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := ts.engine.Summary(hobbies, sessions)
	return &summary, nil
}

// notFound swaps a store miss for the domain error.
func notFound(err, domain error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return domain
	}
	return err
}
