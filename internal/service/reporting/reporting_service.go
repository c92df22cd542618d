package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmsim/internal/domain/models"
	"github.com/mamadbah2/farmsim/pkg/clients/webhook"
)

const (
	defaultQueueSize = 64
	recentCapacity   = 30
)

// Sink stores finished daily reports.
type Sink interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service fans daily reports out to sinks and relays a short summary through
// the notifier. Reports are queued by the game loop and published by Run.
type Service struct {
	sinks    []Sink
	notifier webhook.Notifier
	logger   *zap.Logger
	queue    chan models.DailyReport

	mu     sync.RWMutex
	recent []models.DailyReport
}

// NewService wires a new reporting service instance. notifier may be nil.
func NewService(sinks []Sink, notifier webhook.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sinks:    sinks,
		notifier: notifier,
		logger:   logger,
		queue:    make(chan models.DailyReport, defaultQueueSize),
	}
}

// Enqueue hands a report to the worker without blocking the game loop. When
// the queue is full the report is still kept in the recent list but not published.
func (s *Service) Enqueue(report models.DailyReport) {
	s.remember(report)
	select {
	case s.queue <- report:
	default:
		s.logger.Warn("report queue full, dropping daily report", zap.Int("day", report.Day))
	}
}

// Run publishes queued reports until ctx is cancelled, then drains what is
// already queued.
func (s *Service) Run(ctx context.Context) error {
	for {
		select {
		case report := <-s.queue:
			s.publishLogged(ctx, report)
		case <-ctx.Done():
			for {
				select {
				case report := <-s.queue:
					s.publishLogged(context.WithoutCancel(ctx), report)
				default:
					return nil
				}
			}
		}
	}
}

func (s *Service) publishLogged(ctx context.Context, report models.DailyReport) {
	if err := s.Publish(ctx, report); err != nil {
		s.logger.Error("failed to publish daily report", zap.Int("day", report.Day), zap.Error(err))
		return
	}
	s.logger.Debug("daily report published", zap.Int("day", report.Day))
}

// Publish writes the report to every sink and sends the summary. All sinks are
// attempted; their errors are joined.
func (s *Service) Publish(ctx context.Context, report models.DailyReport) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	if s.notifier != nil {
		msg := webhook.Message{
			Title: fmt.Sprintf("%s: day %d", report.FarmName, report.Day),
			Text:  Summary(report),
			Farm:  report.FarmName,
			Day:   report.Day,
		}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Recent returns the latest reports, newest last.
func (s *Service) Recent() []models.DailyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DailyReport{}, s.recent...)
}

func (s *Service) remember(report models.DailyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append(s.recent, report)
	if len(s.recent) > recentCapacity {
		s.recent = append([]models.DailyReport(nil), s.recent[len(s.recent)-recentCapacity:]...)
	}
}

// Summary renders a one-paragraph text summary of a day.
func Summary(r models.DailyReport) string {
	profit := math.Round(r.Profit*100) / 100
	var outcome string
	switch {
	case profit > 0:
		outcome = fmt.Sprintf("Profit %.2f.", profit)
	case profit < 0:
		outcome = fmt.Sprintf("Loss %.2f.", -profit)
	default:
		outcome = "Break-even day."
	}
	return fmt.Sprintf(
		"Day %d (%s, %s): income %.2f, expenses %.2f. %s Cash %.2f, net worth %.2f. Animals: %d alive, %d dead.",
		r.Day, r.Season, r.Weather, r.Income, r.Expenses, outcome, r.Money, r.NetWorth, r.LivingAnimals, r.DeadAnimals,
	)
}
