package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tipcircle/tipboard/config"

	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
	tipservice "github.com/tipcircle/tipboard/app/modules/tip/application"
)

const testSecret = "test-secret"

// FakeTipService is a hand-written fake with settable behavior per method.
type FakeTipService struct {
	VerifyFunc              func(ctx context.Context, tipID uuid.UUID, status tipdomain.TipStatus, adminID uuid.UUID, note string) (*tipdomain.Verification, error)
	GetTipFunc              func(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error)
	GetUserStatsFunc        func(ctx context.Context, userID uuid.UUID) (tipdomain.UserStats, error)
	VerificationHistoryFunc func(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error)
}

var _ tipservice.Service = (*FakeTipService)(nil)

func (f *FakeTipService) Verify(ctx context.Context, tipID uuid.UUID, status tipdomain.TipStatus, adminID uuid.UUID, note string) (*tipdomain.Verification, error) {
	if f.VerifyFunc == nil {
		return nil, tipservice.ErrTipNotFound
	}
	return f.VerifyFunc(ctx, tipID, status, adminID, note)
}

func (f *FakeTipService) GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error) {
	if f.GetTipFunc == nil {
		return nil, tipservice.ErrTipNotFound
	}
	return f.GetTipFunc(ctx, tipID)
}

func (f *FakeTipService) GetUserStats(ctx context.Context, userID uuid.UUID) (tipdomain.UserStats, error) {
	if f.GetUserStatsFunc == nil {
		return tipdomain.UserStats{}, nil
	}
	return f.GetUserStatsFunc(ctx, userID)
}

func (f *FakeTipService) VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error) {
	if f.VerificationHistoryFunc == nil {
		return nil, nil
	}
	return f.VerificationHistoryFunc(ctx, tipID)
}

// FakeLeaderboardService serves canned snapshots.
type FakeLeaderboardService struct {
	SnapshotFunc func(ctx context.Context, key leaderboarddomain.SortKey) ([]leaderboarddomain.Entry, error)
	ExportFunc   func(ctx context.Context, key leaderboarddomain.SortKey) ([]byte, error)
}

func (f *FakeLeaderboardService) Notify() {}

func (f *FakeLeaderboardService) Snapshot(ctx context.Context, key leaderboarddomain.SortKey) ([]leaderboarddomain.Entry, error) {
	if f.SnapshotFunc == nil {
		return nil, nil
	}
	return f.SnapshotFunc(ctx, key)
}

func (f *FakeLeaderboardService) Subscribe(key leaderboarddomain.SortKey) (<-chan []leaderboarddomain.Entry, func()) {
	ch := make(chan []leaderboarddomain.Entry)
	return ch, func() {}
}

func (f *FakeLeaderboardService) Export(ctx context.Context, key leaderboarddomain.SortKey) ([]byte, error) {
	if f.ExportFunc == nil {
		return nil, nil
	}
	return f.ExportFunc(ctx, key)
}

func (f *FakeLeaderboardService) Close() {}

func newTestHandler(tips *FakeTipService, leaderboard *FakeLeaderboardService) http.Handler {
	srv := NewServer(tips, leaderboard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv.Routes(config.HTTPConfig{
		AdminJWTSecret: testSecret,
		RateLimit:      1000,
		RateBurst:      1000,
	})
}

func adminToken(adminID uuid.UUID, secret string) string {
	claims := AdminClaims{
		AdminID: adminID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return token
}
