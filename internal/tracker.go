package internal

import (
	"hobbyd/internal/providers"
	"hobbyd/internal/repositories"
	"hobbyd/internal/services"
	"hobbyd/internal/statistic/interfaces"
)

// Tracker is the service without the HTTP server, for one-shot commands.
type Tracker struct {
	Service   services.TrackerServiceInterface
	scheduler interfaces.SchedulerInterface
	repo      repositories.Repository
	logger    providers.Logger
}

func NewTracker(service services.TrackerServiceInterface, scheduler interfaces.SchedulerInterface, repo repositories.Repository, logger providers.Logger) *Tracker {
	return &Tracker{
		Service:   service,
		scheduler: scheduler,
		repo:      repo,
		logger:    logger,
	}
}

// Load restores the snapshot of the in-memory store, if any.
func (t *Tracker) Load() error {
	return t.scheduler.Restore()
}

func (t *Tracker) Close() {
	if err := t.repo.Close(); err != nil {
		t.logger.Errorf(providers.TypeStore, "Closing store: %s", err)
	}
	t.logger.Close()
}
