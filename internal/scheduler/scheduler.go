package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const autosaveTimeout = 30 * time.Second

// Saver persists the running game.
type Saver interface {
	Save(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	saver        Saver
	autosaveSpec string
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. autosaveSpec accepts the
// standard 5-field cron syntax and descriptors such as "@every 5m".
func NewScheduler(autosaveSpec string, saver Saver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		saver:        saver,
		autosaveSpec: autosaveSpec,
		logger:       logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("autosave", s.autosaveSpec))

	if _, err := s.cron.AddFunc(s.autosaveSpec, s.autosave); err != nil {
		return fmt.Errorf("schedule autosave %q: %w", s.autosaveSpec, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) autosave() {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	if err := s.saver.Save(ctx); err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
		return
	}
	s.logger.Info("autosave completed")
}
