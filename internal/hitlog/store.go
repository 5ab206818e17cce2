package hitlog

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// VisitSink receives classified hits after they are recorded. Enqueue must
// not block; it runs inside the request path.
type VisitSink interface {
	Enqueue(domain.HitRecord)
}

// Store owns the persisted hit log. It is shared across all request
// handlers in the process; one mutex spans the full load-classify-mutate-
// save sequence so concurrent Record calls serialize instead of losing
// updates to read-modify-write races.
type Store struct {
	mu         sync.Mutex
	storage    Storage
	classifier *domain.Classifier
	sink       VisitSink
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewStore creates a hit log store. sink may be nil when visit-event
// publishing is disabled.
func NewStore(storage Storage, classifier *domain.Classifier, sink VisitSink, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		storage:    storage,
		classifier: classifier,
		sink:       sink,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
		metrics:    metrics,
	}
}

// SetClock swaps the time source. Pass nil to reset to real time.
func (s *Store) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	s.mu.Lock()
	s.clock = c
	s.mu.Unlock()
}

// Record classifies and persists one tracked page view. It never returns an
// error: analytics must not break the page it is attached to, so unreadable
// state degrades to an empty log and write failures are logged and counted
// but swallowed.
func (s *Store) Record(route, clientIP, userAgent string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.loadOrEmpty()

	now := s.clock.Now().UTC()
	result := s.classifier.Classify(userAgent)
	rec := domain.HitRecord{
		Timestamp:      now.Format(time.RFC3339),
		Route:          route,
		IP:             clientIP,
		UserAgent:      userAgent,
		IsBot:          result.IsBot,
		Category:       result.Category,
		MatchedPattern: result.MatchedPattern,
	}
	log.Apply(rec, now)

	if result.IsBot {
		s.metrics.VisitsRecorded.WithLabelValues("bot").Inc()
		s.metrics.BotVisits.WithLabelValues(result.Category).Inc()
	} else {
		s.metrics.VisitsRecorded.WithLabelValues("human").Inc()
	}

	if err := s.storage.Save(log); err != nil {
		s.logger.Error("hit log save failed", "error", err, "route", route)
		s.metrics.HitLogSaveErrors.Inc()
	}

	if s.sink != nil {
		s.sink.Enqueue(rec)
	}
}

// Snapshot returns a consistent copy of the current hit log. Taking the
// store mutex means it observes every completed Record, at the cost of
// briefly queueing behind an in-flight one.
func (s *Store) Snapshot() domain.HitLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrEmpty()
}

// CheckReadiness reports whether persisted state is usable. A missing file
// is fine (first run); a present-but-unreadable one is not.
func (s *Store) CheckReadiness(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.storage.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadOrEmpty applies the degradation policy: any load failure yields a
// fresh empty log. Corruption costs history, never availability.
func (s *Store) loadOrEmpty() domain.HitLog {
	log, err := s.storage.Load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("hit log unreadable, starting empty", "error", err)
			s.metrics.HitLogLoadErrors.Inc()
		}
		return domain.NewHitLog()
	}
	return log
}
