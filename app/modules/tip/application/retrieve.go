package tipservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// GetTip returns a single tip.
func (s *TipService) GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error) {
	return serviceWrapper(ctx, s, "GetTip", func(ctx context.Context) (*tipdomain.Tip, error) {
		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		tip, err := s.repo.GetTip(ctx, tipID)
		if err != nil {
			if errors.Is(err, tipdb.ErrNotFound) {
				return nil, ErrTipNotFound
			}
			return nil, &StoreUnavailableError{Op: "GetTip", Err: err}
		}
		return tip, nil
	})
}

// GetUserStats aggregates the statistics for one tipster from their full
// tip set. A user with no tips gets an all-zero record.
func (s *TipService) GetUserStats(ctx context.Context, userID uuid.UUID) (tipdomain.UserStats, error) {
	return serviceWrapper(ctx, s, "GetUserStats", func(ctx context.Context) (tipdomain.UserStats, error) {
		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		tips, err := s.repo.ListTipsByUser(ctx, userID)
		if err != nil {
			return tipdomain.UserStats{}, &StoreUnavailableError{Op: "ListTipsByUser", Err: err}
		}
		return tipdomain.ComputeUserStats(tips), nil
	})
}

// VerificationHistory returns a tip's verification audit trail.
func (s *TipService) VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error) {
	return serviceWrapper(ctx, s, "VerificationHistory", func(ctx context.Context) ([]tipdomain.Verification, error) {
		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		if _, err := s.repo.GetTip(ctx, tipID); err != nil {
			if errors.Is(err, tipdb.ErrNotFound) {
				return nil, ErrTipNotFound
			}
			return nil, &StoreUnavailableError{Op: "GetTip", Err: err}
		}

		history, err := s.repo.VerificationHistory(ctx, tipID)
		if err != nil {
			return nil, &StoreUnavailableError{Op: "VerificationHistory", Err: err}
		}
		return history, nil
	})
}
