package statistic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyd/internal/models"
	"hobbyd/internal/repositories"
	"hobbyd/internal/structures"
	"hobbyd/internal/testutil"
)

func testConfig(filePath string) *structures.Config {
	return schedulerConfig(filePath, time.Second)
}

func schedulerConfig(filePath string, interval time.Duration) *structures.Config {
	return &structures.Config{
		Store: structures.StoreConfig{
			Driver:       structures.DriverMemory,
			FilePath:     filePath,
			SaveInterval: interval,
		},
	}
}

func TestScheduler_Restore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.dat")
	comp := &testutil.MockCompressor{}
	logger := &testutil.MockLogger{}
	require.NoError(t, NewFileManager(comp, seededRepository(t), logger).SaveToFile(path))

	repo := repositories.NewMemory()
	metrics := &testutil.MockMetrics{}
	s := NewScheduler(testConfig(path), logger, NewFileManager(comp, repo, logger), repo, metrics)
	require.NoError(t, s.Restore())

	hobby, err := repo.GetHobby(context.Background(), &repositories.GetHobbyInput{HobbyID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, "Guitar", hobby.Name)
	assert.Equal(t, 2, metrics.RecordsOf(repositories.KindSessions))
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(testConfig("/nonexistent/file.dat"), logger, fm, repo, &testutil.MockMetrics{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(testConfig(path), logger, fm, repo, &testutil.MockMetrics{})
	assert.Error(t, s.Restore())
}

func TestScheduler_RestoreFailureKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newer.dat")
	original := []byte(`{"version":2,"users":[],"hobbies":[],"sessions":[{"id":"s1"},{"id":"s2"}]}`)
	require.NoError(t, os.WriteFile(path, original, 0644))

	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)
	s := NewScheduler(testConfig(path), logger, fm, repo, metrics)

	require.Error(t, s.Restore())
	assert.ErrorIs(t, s.Persist(), ErrSnapshotLocked)
	s.(*Scheduler).tick()

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, onDisk)
	assert.Equal(t, 0, metrics.PersistCount())
}

func TestScheduler_Persist_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	repo := seededRepository(t)
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(testConfig(path), logger, fm, repo, metrics)
	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.PersistCount())
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(comp, repo, logger)

	s := NewScheduler(testConfig(filepath.Join(t.TempDir(), "x.dat")), logger, fm, repo, metrics)
	assert.Error(t, s.Persist())
	assert.Equal(t, 1, logger.Count("error"))
	assert.Equal(t, 0, metrics.PersistCount())
}

func TestScheduler_Persist_NoSnapshotter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.dat")
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, nil, logger)

	s := NewScheduler(testConfig(path), logger, fm, repositories.NewMemory(), &testutil.MockMetrics{})
	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestScheduler_StopWithoutInit(t *testing.T) {
	repo := repositories.NewMemory()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(testConfig("/tmp/test.dat"), logger, fm, repo, &testutil.MockMetrics{})
	// Should not panic without a running loop
	s.Stop()
}

func TestScheduler_InitPersistsPeriodically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.dat")
	repo := seededRepository(t)
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(testConfig(path), logger, fm, repo, metrics)
	s.Init()
	s.Init()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil && metrics.RecordsOf(repositories.KindHobbies) == 1
	}, 4*time.Second, 20*time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestScheduler_IntervalDefault(t *testing.T) {
	s := &Scheduler{config: &structures.Config{}}
	assert.Equal(t, defaultSaveInterval, s.interval())

	s.config.Store.SaveInterval = time.Minute
	assert.Equal(t, time.Minute, s.interval())
}

func TestScheduler_RefreshCounts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemory()
	require.NoError(t, repo.SaveUser(ctx, &repositories.SaveUserInput{User: &models.User{ID: "u1"}}))
	metrics := &testutil.MockMetrics{}
	logger := &testutil.MockLogger{}

	s := NewScheduler(testConfig(""), logger, NewFileManager(&testutil.MockCompressor{}, repo, logger), repo, metrics).(*Scheduler)
	s.RefreshCounts()

	assert.Equal(t, 1, metrics.RecordsOf(repositories.KindUsers))
	assert.Equal(t, 0, metrics.RecordsOf(repositories.KindSessions))
}

func TestScheduler_TickAfterStopIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopped.dat")
	repo := seededRepository(t)
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fm := NewFileManager(&testutil.MockCompressor{}, repo, logger)

	s := NewScheduler(schedulerConfig(path, time.Hour), logger, fm, repo, metrics).(*Scheduler)
	s.Init()
	s.Stop()

	// a job gron launched before Stop may still run afterwards
	s.tick()

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, metrics.PersistCount())

	// the shutdown persist still goes through
	require.NoError(t, s.Persist())
	assert.Equal(t, 1, metrics.PersistCount())
}
