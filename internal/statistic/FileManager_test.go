package statistic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyd/internal/models"
	"hobbyd/internal/repositories"
	"hobbyd/internal/testutil"
)

func seededRepository(t *testing.T) repositories.Repository {
	t.Helper()
	ctx := context.Background()
	repo := repositories.NewMemory()
	require.NoError(t, repo.SaveUser(ctx, &repositories.SaveUserInput{User: &models.User{ID: "u1", Name: "Ada"}}))
	require.NoError(t, repo.SaveHobby(ctx, &repositories.SaveHobbyInput{Hobby: &models.Hobby{ID: "h1", UserID: "u1", Name: "Guitar", Icon: "🎸"}}))
	require.NoError(t, repo.SaveSession(ctx, &repositories.SaveSessionInput{Session: &models.Session{ID: "s1", UserID: "u1", HobbyID: "h1", Date: "2024-01-10", DurationMinutes: 45}}))
	require.NoError(t, repo.SaveSession(ctx, &repositories.SaveSessionInput{Session: &models.Session{ID: "s2", UserID: "u1", HobbyID: "h1", Date: "2024-01-09", DurationMinutes: 30}}))
	return repo
}

func TestFileManager_SaveToFile_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dat")

	fm := NewFileManager(&testutil.MockCompressor{}, seededRepository(t), &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)

	// Temp file should not exist
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveToFile_WritesEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.dat")

	fm := NewFileManager(&testutil.MockCompressor{}, seededRepository(t), &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var storage models.Storage
	require.NoError(t, json.Unmarshal(raw, &storage))
	assert.Equal(t, models.StorageVersion, storage.Version)
	assert.Len(t, storage.Users, 1)
	assert.Len(t, storage.Hobbies, 1)
	assert.Len(t, storage.Sessions, 2)
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, repositories.NewMemory(), &testutil.MockLogger{})
	err := fm.LoadFromFile("/nonexistent/path/file.dat")
	assert.NoError(t, err) // not an error, just no data
}

func TestFileManager_LoadFromFile_Unversioned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.dat")
	legacy := `{"users":[{"id":"u1","name":"Ada","hobbies":["h1"]}],"hobbies":[{"id":"h1","userId":"u1","name":"Chess"}],"sessions":[]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)
	require.NoError(t, fm.LoadFromFile(path))

	h, err := repo.GetHobby(context.Background(), &repositories.GetHobbyInput{HobbyID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, "Chess", h.Name)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileManager_LoadFromFile_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, repositories.NewMemory(), &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_LoadFromFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, repositories.NewMemory(), &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "err.dat")

	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress failed")
		},
	}
	fm := NewFileManager(comp, seededRepository(t), &testutil.MockLogger{})

	err := fm.SaveToFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "compress failed")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileManager_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dec.dat")
	require.NoError(t, os.WriteFile(path, []byte("some data"), 0644))

	comp := &testutil.MockCompressor{
		DecompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("decompress failed")
		},
	}
	fm := NewFileManager(comp, repositories.NewMemory(), &testutil.MockLogger{})

	err := fm.LoadFromFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decompress failed")
}

func TestFileManager_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()
	logger := &testutil.MockLogger{}

	require.NoError(t, NewFileManager(comp, seededRepository(t), logger).SaveToFile(path))

	restored := repositories.NewMemory()
	require.NoError(t, NewFileManager(comp, restored, logger).LoadFromFile(path))

	ctx := context.Background()
	u, err := restored.GetUser(ctx, &repositories.GetUserInput{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, u.Hobbies)

	out, err := restored.ListSessions(ctx, &repositories.ListSessionsInput{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, out.Sessions, 2)
	assert.Equal(t, "s1", out.Sessions[0].ID)
	assert.Equal(t, 45, out.Sessions[0].DurationMinutes)
}

func TestFileManager_NoSnapshotter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.dat")
	fm := NewFileManager(&testutil.MockCompressor{}, nil, &testutil.MockLogger{})

	assert.False(t, fm.Enabled())
	require.NoError(t, fm.SaveToFile(path))
	require.NoError(t, fm.LoadFromFile(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_FailedLoadLocksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.dat")
	original := []byte(`{"version":2,"users":[],"hobbies":[],"sessions":[{"id":"s1"},{"id":"s2"}]}`)
	require.NoError(t, os.WriteFile(path, original, 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, seededRepository(t), &testutil.MockLogger{})
	require.Error(t, fm.LoadFromFile(path))

	err := fm.SaveToFile(path)
	assert.ErrorIs(t, err, ErrSnapshotLocked)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, onDisk)

	// a later successful load releases the lock
	require.NoError(t, os.Remove(path))
	require.NoError(t, fm.LoadFromFile(path))
	assert.NoError(t, fm.SaveToFile(path))
}
