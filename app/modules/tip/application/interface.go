package tipservice

import (
	"context"

	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// Service is the tip module's operation surface.
type Service interface {
	// Verify moves a tip out of pending into the given terminal status,
	// recording who verified it and when. Re-verifying is a corrective
	// re-transition, not a new state.
	Verify(ctx context.Context, tipID uuid.UUID, status tipdomain.TipStatus, adminID uuid.UUID, note string) (*tipdomain.Verification, error)

	// GetTip returns a single tip.
	GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error)

	// GetUserStats aggregates the statistics for one tipster. A user with
	// zero tips yields an all-zero record, not an error.
	GetUserStats(ctx context.Context, userID uuid.UUID) (tipdomain.UserStats, error)

	// VerificationHistory returns a tip's verification audit trail, newest
	// first.
	VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error)
}
