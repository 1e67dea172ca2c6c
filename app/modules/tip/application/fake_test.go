package tipservice

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

// FakeTipRepo is a hand-written fake with settable behavior per method.
type FakeTipRepo struct {
	GetTipFunc                  func(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error)
	ListTipsByUserFunc          func(ctx context.Context, userID uuid.UUID) ([]tipdomain.Tip, error)
	ListAllTipsFunc             func(ctx context.Context) ([]tipdomain.Tip, error)
	ApplyVerificationFunc       func(ctx context.Context, v tipdomain.Verification) (*tipdomain.Verification, error)
	CurrentVerificationFunc     func(ctx context.Context, tipID uuid.UUID) (*tipdomain.Verification, error)
	VerificationHistoryFunc     func(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error)
	GetProfileFunc              func(ctx context.Context, userID uuid.UUID) (*tipdomain.UserProfile, error)
	ListProfilesFunc            func(ctx context.Context) (map[uuid.UUID]tipdomain.UserProfile, error)
	ApplyVerificationCallCount  int
}

var _ tipdb.Repository = (*FakeTipRepo)(nil)

func (f *FakeTipRepo) GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error) {
	if f.GetTipFunc == nil {
		return nil, tipdb.ErrNotFound
	}
	return f.GetTipFunc(ctx, tipID)
}

func (f *FakeTipRepo) ListTipsByUser(ctx context.Context, userID uuid.UUID) ([]tipdomain.Tip, error) {
	if f.ListTipsByUserFunc == nil {
		return nil, nil
	}
	return f.ListTipsByUserFunc(ctx, userID)
}

func (f *FakeTipRepo) ListAllTips(ctx context.Context) ([]tipdomain.Tip, error) {
	if f.ListAllTipsFunc == nil {
		return nil, nil
	}
	return f.ListAllTipsFunc(ctx)
}

func (f *FakeTipRepo) ApplyVerification(ctx context.Context, v tipdomain.Verification) (*tipdomain.Verification, error) {
	f.ApplyVerificationCallCount++
	if f.ApplyVerificationFunc == nil {
		return &v, nil
	}
	return f.ApplyVerificationFunc(ctx, v)
}

func (f *FakeTipRepo) CurrentVerification(ctx context.Context, tipID uuid.UUID) (*tipdomain.Verification, error) {
	if f.CurrentVerificationFunc == nil {
		return nil, tipdb.ErrNotFound
	}
	return f.CurrentVerificationFunc(ctx, tipID)
}

func (f *FakeTipRepo) VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error) {
	if f.VerificationHistoryFunc == nil {
		return nil, nil
	}
	return f.VerificationHistoryFunc(ctx, tipID)
}

func (f *FakeTipRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*tipdomain.UserProfile, error) {
	if f.GetProfileFunc == nil {
		return nil, tipdb.ErrNotFound
	}
	return f.GetProfileFunc(ctx, userID)
}

func (f *FakeTipRepo) ListProfiles(ctx context.Context) (map[uuid.UUID]tipdomain.UserProfile, error) {
	if f.ListProfilesFunc == nil {
		return nil, nil
	}
	return f.ListProfilesFunc(ctx)
}

// FakeEventBus records published messages.
type FakeEventBus struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
	PubErr    error
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{Published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PubErr != nil {
		return f.PubErr
	}
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

func newTestService(repo tipdb.Repository, bus *FakeEventBus) *TipService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewTipMetrics(prometheus.NewRegistry())
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewTipService(repo, bus, logger, metrics, tracer, 5*time.Second)
}
