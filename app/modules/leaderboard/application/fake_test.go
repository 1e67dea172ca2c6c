package leaderboardservice

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tipcircle/tipboard/internal/observability"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// FakeStore is a hand-written fake with settable behavior per method. The
// leaderboard only reads, so the write methods just satisfy the interface.
type FakeStore struct {
	mu sync.Mutex

	ListAllTipsFunc  func(ctx context.Context) ([]tipdomain.Tip, error)
	ListProfilesFunc func(ctx context.Context) (map[uuid.UUID]tipdomain.UserProfile, error)

	ListAllTipsCallCount int
}

var _ tipdb.Repository = (*FakeStore)(nil)

func (f *FakeStore) ListAllTips(ctx context.Context) ([]tipdomain.Tip, error) {
	f.mu.Lock()
	f.ListAllTipsCallCount++
	f.mu.Unlock()
	if f.ListAllTipsFunc == nil {
		return nil, nil
	}
	return f.ListAllTipsFunc(ctx)
}

func (f *FakeStore) ListProfiles(ctx context.Context) (map[uuid.UUID]tipdomain.UserProfile, error) {
	if f.ListProfilesFunc == nil {
		return nil, nil
	}
	return f.ListProfilesFunc(ctx)
}

func (f *FakeStore) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListAllTipsCallCount
}

func (f *FakeStore) GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error) {
	return nil, tipdb.ErrNotFound
}

func (f *FakeStore) ListTipsByUser(ctx context.Context, userID uuid.UUID) ([]tipdomain.Tip, error) {
	return nil, nil
}

func (f *FakeStore) ApplyVerification(ctx context.Context, v tipdomain.Verification) (*tipdomain.Verification, error) {
	return &v, nil
}

func (f *FakeStore) CurrentVerification(ctx context.Context, tipID uuid.UUID) (*tipdomain.Verification, error) {
	return nil, tipdb.ErrNotFound
}

func (f *FakeStore) VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error) {
	return nil, nil
}

func (f *FakeStore) GetProfile(ctx context.Context, userID uuid.UUID) (*tipdomain.UserProfile, error) {
	return nil, tipdb.ErrNotFound
}

// FakeEventBus records published messages.
type FakeEventBus struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{Published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (f *FakeEventBus) Close() error { return nil }

func (f *FakeEventBus) Count(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Published[topic])
}

func newTestService(store *FakeStore, debounce time.Duration) (*LeaderboardService, *FakeEventBus) {
	bus := NewFakeEventBus()
	svc := NewLeaderboardService(
		store,
		bus,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewLeaderboardMetrics(prometheus.NewRegistry()),
		noop.NewTracerProvider().Tracer("test"),
		debounce,
		5*time.Second,
	)
	return svc, bus
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
