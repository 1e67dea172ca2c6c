// Package leaderboardservice recomputes and publishes the global tipster
// leaderboard in response to verification change notifications.
package leaderboardservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/tipcircle/tipboard/internal/eventbus"
	"github.com/tipcircle/tipboard/internal/observability"

	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// Service is the leaderboard module's operation surface.
type Service interface {
	// Notify signals that verification data changed. Bursts of calls
	// within the debounce window coalesce into a single recompute.
	Notify()

	// Snapshot returns the current leaderboard under the given sort key,
	// computing one on demand when nothing has been published yet.
	Snapshot(ctx context.Context, key leaderboarddomain.SortKey) ([]leaderboarddomain.Entry, error)

	// Subscribe registers for push snapshots ranked by the given key.
	// Each delivery is a full replacement; the returned cancel func
	// unregisters the subscription.
	Subscribe(key leaderboarddomain.SortKey) (<-chan []leaderboarddomain.Entry, func())

	// Export renders the current leaderboard as an XLSX workbook.
	Export(ctx context.Context, key leaderboarddomain.SortKey) ([]byte, error)

	// Close stops the debounce timer and any in-flight recompute.
	Close()
}

// LeaderboardService implements Service.
type LeaderboardService struct {
	repo         tipdb.Repository
	eventBus     eventbus.EventBus
	logger       *slog.Logger
	metrics      *observability.LeaderboardMetrics
	tracer       trace.Tracer
	debounce     time.Duration
	storeTimeout time.Duration

	mu             sync.Mutex
	timer          *time.Timer
	closed         bool
	nextSeq        uint64
	publishedSeq   uint64
	cancelInFlight context.CancelFunc
	latest         []leaderboarddomain.UserSummary
	haveSnapshot   bool
	subs           map[int]*subscription
	nextSubID      int
}

var _ Service = (*LeaderboardService)(nil)

type subscription struct {
	key leaderboarddomain.SortKey
	ch  chan []leaderboarddomain.Entry
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo tipdb.Repository,
	bus eventbus.EventBus,
	logger *slog.Logger,
	metrics *observability.LeaderboardMetrics,
	tracer trace.Tracer,
	debounce time.Duration,
	storeTimeout time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		repo:         repo,
		eventBus:     bus,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		debounce:     debounce,
		storeTimeout: storeTimeout,
		subs:         make(map[int]*subscription),
	}
}

// Subscribe registers a push subscriber. The channel has capacity one and
// always holds the newest snapshot: a slow consumer skips intermediate
// snapshots instead of lagging behind.
func (s *LeaderboardService) Subscribe(key leaderboarddomain.SortKey) (<-chan []leaderboarddomain.Entry, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	sub := &subscription{
		key: key,
		ch:  make(chan []leaderboarddomain.Entry, 1),
	}
	s.subs[id] = sub

	if s.haveSnapshot {
		sub.deliver(leaderboarddomain.Rank(s.latest, key))
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub.ch)
		}
	}
	return sub.ch, cancel
}

// deliver replaces whatever snapshot is queued with the newest one.
func (sub *subscription) deliver(entries []leaderboarddomain.Entry) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- entries
}

// Close stops the debounce timer, cancels any in-flight recompute, and
// closes all subscriber channels.
func (s *LeaderboardService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancelInFlight != nil {
		s.cancelInFlight()
		s.cancelInFlight = nil
	}
	for id, sub := range s.subs {
		delete(s.subs, id)
		close(sub.ch)
	}
}
