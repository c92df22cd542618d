// Package game serializes host access to a single farm session: the tick
// loop, HTTP handlers and scheduled jobs all go through a Session.
package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/internal/metrics"
	"github.com/mamadbah2/farmsim/internal/service/farm"
)

// Session guards a farm manager with a mutex.
type Session struct {
	mu      sync.Mutex
	manager *farm.Manager
	metrics *metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewSession wraps manager. recorder may be nil.
func NewSession(manager *farm.Manager, recorder *metrics.Recorder, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		manager: manager,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
	s.observe()
	return s
}

// Do runs fn with exclusive access to the manager.
func (s *Session) Do(fn func(m *farm.Manager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.manager)
	s.observe()
	return err
}

// Snapshot returns a deep copy of the current farm state.
func (s *Session) Snapshot() *models.FarmState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.State()
}

// Tick advances the game by dt real seconds.
func (s *Session) Tick(dt float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.manager.CurrentDay()
	hours := s.manager.Update(dt)
	if hours > 0 && s.metrics != nil {
		s.observe()
		s.metrics.AddHours(hours)
		for d := day; d < s.manager.CurrentDay(); d++ {
			s.metrics.DayCompleted()
		}
	}
	return hours
}

// Save persists the game.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.manager.Save(ctx)
	if s.metrics != nil {
		s.metrics.SaveResult(err)
	}
	return err
}

// Run ticks the game every interval with the real time elapsed since the
// previous tick, until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.now()
	s.logger.Info("game loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("game loop stopped")
			return nil
		case <-ticker.C:
			now := s.now()
			if hours := s.Tick(now.Sub(last).Seconds()); hours > 0 {
				s.logger.Debug("game time advanced", zap.Int("hours", hours))
			}
			last = now
		}
	}
}

func (s *Session) observe() {
	if s.metrics != nil {
		s.manager.View(s.metrics.Observe)
	}
}
