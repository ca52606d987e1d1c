package statistic

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/statistic/interfaces"
	"hobbyd/internal/structures"
)

const defaultSaveInterval = 30 * time.Second

// Scheduler periodically snapshots the in-memory store and refreshes the
// record gauges. Stores without a snapshot side only get the gauges.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	fileManager *FileManager
	repo        repositories.Repository
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
	// stopped is guarded by opsMu; gron may still fire a job it launched
	// before Stop returned.
	stopped bool
}

func (s *Scheduler) interval() time.Duration {
	if s.config.Store.SaveInterval > 0 {
		return s.config.Store.SaveInterval
	}
	return defaultSaveInterval
}

func (s *Scheduler) Init() {
	if s.cron != nil {
		return
	}
	s.opsMu.Lock()
	s.stopped = false
	s.opsMu.Unlock()

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.interval()), s.tick)
	s.cron.Start()
}

func (s *Scheduler) tick() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.stopped {
		return
	}
	if s.fileManager.Enabled() {
		if err := s.persist(); err != nil {
			return
		}
		s.logger.Debugf(providers.TypeStore, "Persisted data to file %s", s.config.Store.FilePath)
	}
	s.RefreshCounts()
}

// Stop halts the schedule. Once it returns no scheduled tick touches the
// store or the file; a tick already running finishes first.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil

	s.opsMu.Lock()
	s.stopped = true
	s.opsMu.Unlock()
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	err := s.fileManager.LoadFromFile(s.config.Store.FilePath)
	s.opsMu.Unlock()
	if err != nil {
		return err
	}
	s.RefreshCounts()
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.fileManager.Enabled() {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.persist()
}

func (s *Scheduler) persist() error {
	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Store.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// RefreshCounts publishes the current record totals as gauges.
func (s *Scheduler) RefreshCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Warnf(providers.TypeStore, "Counting records failed: %s", err)
		return
	}
	for kind, n := range out.Totals {
		s.metrics.SetRecordsTotal(kind, n)
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, repo repositories.Repository, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		fileManager: fileManager,
		repo:        repo,
		metrics:     metrics,
	}
}
