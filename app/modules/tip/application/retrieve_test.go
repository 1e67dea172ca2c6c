package tipservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

func TestGetUserStatsZeroTips(t *testing.T) {
	repo := &FakeTipRepo{
		ListTipsByUserFunc: func(ctx context.Context, userID uuid.UUID) ([]tipdomain.Tip, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo, NewFakeEventBus())

	stats, err := svc.GetUserStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTips)
	assert.Zero(t, stats.WinRate)
}

func TestGetUserStatsAggregates(t *testing.T) {
	userID := uuid.New()
	repo := &FakeTipRepo{
		ListTipsByUserFunc: func(ctx context.Context, id uuid.UUID) ([]tipdomain.Tip, error) {
			return []tipdomain.Tip{
				{UserID: userID, Sport: tipdomain.SportFootball, Odds: "2/1", Status: tipdomain.StatusWin},
				{UserID: userID, Sport: tipdomain.SportFootball, Odds: "3/1", Status: tipdomain.StatusLoss},
				{UserID: userID, Sport: tipdomain.SportGolf, Odds: "x", Status: tipdomain.StatusPending},
			}, nil
		},
	}
	svc := newTestService(repo, NewFakeEventBus())

	stats, err := svc.GetUserStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTips)
	assert.Equal(t, 2, stats.VerifiedTips)
	assert.Equal(t, 1, stats.PendingTips)
	assert.Equal(t, 50, stats.WinRate)
}

func TestGetUserStatsStoreFailure(t *testing.T) {
	repo := &FakeTipRepo{
		ListTipsByUserFunc: func(ctx context.Context, id uuid.UUID) ([]tipdomain.Tip, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestService(repo, NewFakeEventBus())

	_, err := svc.GetUserStats(context.Background(), uuid.New())
	var storeErr *StoreUnavailableError
	require.ErrorAs(t, err, &storeErr)
}

func TestVerificationHistoryUnknownTip(t *testing.T) {
	svc := newTestService(&FakeTipRepo{}, NewFakeEventBus())

	_, err := svc.VerificationHistory(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrTipNotFound)
}
