package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hobbyd/internal/models"
)

const sqliteTimeLayout = time.RFC3339Nano

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS hobbies (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  name TEXT NOT NULL,
  icon TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hobbies_user ON hobbies (user_id);
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  hobby_id TEXT NOT NULL,
  date TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id, date);
CREATE INDEX IF NOT EXISTS idx_sessions_hobby ON sessions (hobby_id);
`

// Row types keep timestamps as RFC 3339 text, the same way for every
// sqlite driver version.
type userRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Location  string `db:"location"`
	CreatedAt string `db:"created_at"`
}

type hobbyRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Name      string `db:"name"`
	Icon      string `db:"icon"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type sessionRow struct {
	ID              string `db:"id"`
	UserID          string `db:"user_id"`
	HobbyID         string `db:"hobby_id"`
	Date            string `db:"date"`
	DurationMinutes int    `db:"duration_minutes"`
	CreatedAt       string `db:"created_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (r hobbyRow) model() *models.Hobby {
	return &models.Hobby{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Icon:      r.Icon,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func (r sessionRow) model() *models.Session {
	return &models.Session{
		ID:              r.ID,
		UserID:          r.UserID,
		HobbyID:         r.HobbyID,
		Date:            r.Date,
		DurationMinutes: r.DurationMinutes,
		CreatedAt:       parseTime(r.CreatedAt),
	}
}

// SqliteConfig holds configuration for the SQLite repository
type SqliteConfig struct {
	Path string
}

type sqliteRepository struct {
	db *sqlx.DB
}

// NewSqlite opens (and if needed creates) the database file at cfg.Path.
func NewSqlite(cfg *SqliteConfig) (*sqliteRepository, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &sqliteRepository{db: db}, nil
}

func (r *sqliteRepository) SaveUser(ctx context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil || input.User.ID == "" {
		return errEmptyInput
	}
	u := input.User
	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO users (id, name, location, created_at)
VALUES (:id, :name, :location, :created_at)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  location=excluded.location`,
		userRow{ID: u.ID, Name: u.Name, Location: u.Location, CreatedAt: formatTime(u.CreatedAt)})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser derives the hobby id list from the hobbies table.
func (r *sqliteRepository) GetUser(ctx context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	var row userRow
	err := r.db.GetContext(ctx, &row, `SELECT id, name, location, created_at FROM users WHERE id = ?`, input.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	hobbies := []string{}
	err = r.db.SelectContext(ctx, &hobbies, `SELECT id FROM hobbies WHERE user_id = ? ORDER BY created_at, id`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user hobbies: %w", err)
	}

	return &models.User{
		ID:        row.ID,
		Name:      row.Name,
		Location:  row.Location,
		CreatedAt: parseTime(row.CreatedAt),
		Hobbies:   hobbies,
	}, nil
}

func (r *sqliteRepository) SaveHobby(ctx context.Context, input *SaveHobbyInput) error {
	if input == nil || input.Hobby == nil || input.Hobby.ID == "" {
		return errEmptyInput
	}
	h := input.Hobby

	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT COUNT(1) FROM users WHERE id = ?`, h.UserID); err != nil {
		return fmt.Errorf("failed to check owner: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("owner %s: %w", h.UserID, ErrNotFound)
	}

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO hobbies (id, user_id, name, icon, created_at, updated_at)
VALUES (:id, :user_id, :name, :icon, :created_at, :updated_at)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  icon=excluded.icon,
  updated_at=excluded.updated_at`,
		hobbyRow{
			ID:        h.ID,
			UserID:    h.UserID,
			Name:      h.Name,
			Icon:      h.Icon,
			CreatedAt: formatTime(h.CreatedAt),
			UpdatedAt: formatTime(h.UpdatedAt),
		})
	if err != nil {
		return fmt.Errorf("failed to save hobby: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetHobby(ctx context.Context, input *GetHobbyInput) (*models.Hobby, error) {
	if input == nil || input.HobbyID == "" {
		return nil, errEmptyInput
	}
	var row hobbyRow
	err := r.db.GetContext(ctx, &row, `SELECT id, user_id, name, icon, created_at, updated_at FROM hobbies WHERE id = ?`, input.HobbyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hobby: %w", err)
	}
	return row.model(), nil
}

func (r *sqliteRepository) ListHobbies(ctx context.Context, input *ListHobbiesInput) (*ListHobbiesOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}
	var rows []hobbyRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, user_id, name, icon, created_at, updated_at FROM hobbies WHERE user_id = ?`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hobbies: %w", err)
	}

	hobbies := make([]*models.Hobby, 0, len(rows))
	for _, row := range rows {
		hobbies = append(hobbies, row.model())
	}
	sortHobbies(hobbies)
	return &ListHobbiesOutput{Hobbies: hobbies}, nil
}

func (r *sqliteRepository) DeleteHobby(ctx context.Context, input *DeleteHobbyInput) (*DeleteHobbyOutput, error) {
	if input == nil || input.HobbyID == "" || input.UserID == "" {
		return nil, errEmptyInput
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE hobby_id = ? AND user_id = ?`, input.HobbyID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete sessions: %w", err)
	}
	deleted, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM hobbies WHERE id = ? AND user_id = ?`, input.HobbyID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete hobby: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &DeleteHobbyOutput{DeletedSessions: int(deleted)}, nil
}

func (r *sqliteRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil || input.Session.ID == "" {
		return errEmptyInput
	}
	s := input.Session
	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO sessions (id, user_id, hobby_id, date, duration_minutes, created_at)
VALUES (:id, :user_id, :hobby_id, :date, :duration_minutes, :created_at)
ON CONFLICT(id) DO UPDATE SET
  date=excluded.date,
  duration_minutes=excluded.duration_minutes`,
		sessionRow{
			ID:              s.ID,
			UserID:          s.UserID,
			HobbyID:         s.HobbyID,
			Date:            s.Date,
			DurationMinutes: s.DurationMinutes,
			CreatedAt:       formatTime(s.CreatedAt),
		})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errEmptyInput
	}
	var row sessionRow
	err := r.db.GetContext(ctx, &row, `SELECT id, user_id, hobby_id, date, duration_minutes, created_at FROM sessions WHERE id = ?`, input.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return row.model(), nil
}

func (r *sqliteRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errEmptyInput
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, input.SessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errEmptyInput
	}

	query := `SELECT id, user_id, hobby_id, date, duration_minutes, created_at FROM sessions WHERE user_id = ?`
	args := []interface{}{input.UserID}
	if input.HobbyID != "" {
		query += ` AND hobby_id = ?`
		args = append(args, input.HobbyID)
	}

	var rows []sessionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.model())
	}
	return &ListSessionsOutput{Sessions: finishSessions(sessions, input.Limit)}, nil
}

func (r *sqliteRepository) Counts(ctx context.Context) (*CountsOutput, error) {
	totals := make(map[string]int, 3)
	for kind, table := range map[string]string{KindUsers: "users", KindHobbies: "hobbies", KindSessions: "sessions"} {
		var n int
		if err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM `+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", kind, err)
		}
		totals[kind] = n
	}
	return &CountsOutput{Totals: totals}, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
