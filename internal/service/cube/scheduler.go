package cube

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler triggers periodic cube refreshes on a cron schedule.
type RefreshScheduler struct {
	cron    *cron.Cron
	svc     *Service
	logger  *slog.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID // cube name -> cron entry
}

// NewRefreshScheduler creates a scheduler over the service's catalog.
func NewRefreshScheduler(svc *Service, logger *slog.Logger) *RefreshScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshScheduler{
		cron:    cron.New(),
		svc:     svc,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Start registers one refresh entry per registered cube using the given cron
// schedule, then starts the scheduler.
func (s *RefreshScheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, def := range s.svc.ListCubes() {
		cubeName := def.Name
		entryID, err := s.cron.AddFunc(schedule, func() {
			if err := s.svc.RefreshCube(context.Background(), cubeName); err != nil {
				s.logger.Warn("scheduled refresh failed", "cube", cubeName, "error", err)
			}
		})
		if err != nil {
			return err
		}
		s.entries[cubeName] = entryID
		s.logger.Info("scheduled cube refresh", "cube", cubeName, "schedule", schedule)
	}

	s.cron.Start()
	s.logger.Info("refresh scheduler started", "cubes", len(s.entries))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *RefreshScheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("refresh scheduler stopped")
}

// Entries returns the number of scheduled cubes.
func (s *RefreshScheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
