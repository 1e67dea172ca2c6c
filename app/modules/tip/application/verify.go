package tipservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tipcircle/tipboard/internal/observability/attr"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
	tipevents "github.com/tipcircle/tipboard/app/modules/tip/events"
	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// Verify assigns a terminal outcome to a tip.
//
// The write is a single transaction: tip status, verification timestamp,
// verifying admin, game-finished flag, and the verification record all land
// together or not at all. No recompute runs synchronously; the leaderboard
// module reacts to the published change event, which keeps verification
// latency independent of leaderboard size.
func (s *TipService) Verify(ctx context.Context, tipID uuid.UUID, status tipdomain.TipStatus, adminID uuid.UUID, note string) (*tipdomain.Verification, error) {
	return serviceWrapper(ctx, s, "Verify", func(ctx context.Context) (*tipdomain.Verification, error) {
		if adminID == uuid.Nil {
			s.metrics.RecordVerificationFailure("missing_admin")
			return nil, ErrMissingAdmin
		}
		if !status.IsTerminal() {
			s.metrics.RecordVerificationFailure("invalid_status")
			return nil, &InvalidStatusError{Status: status}
		}

		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		tip, err := s.repo.GetTip(ctx, tipID)
		if err != nil {
			if errors.Is(err, tipdb.ErrNotFound) {
				s.metrics.RecordVerificationFailure("not_found")
				return nil, ErrTipNotFound
			}
			s.metrics.RecordVerificationFailure("store")
			return nil, &StoreUnavailableError{Op: "GetTip", Err: err}
		}

		applied, err := s.repo.ApplyVerification(ctx, tipdomain.Verification{
			ID:         uuid.New(),
			TipID:      tipID,
			TipsterID:  tip.UserID,
			Status:     status,
			AdminID:    adminID,
			VerifiedAt: s.now().UTC(),
			Note:       note,
		})
		if err != nil {
			if errors.Is(err, tipdb.ErrNotFound) {
				s.metrics.RecordVerificationFailure("not_found")
				return nil, ErrTipNotFound
			}
			s.metrics.RecordVerificationFailure("store")
			return nil, &StoreUnavailableError{Op: "ApplyVerification", Err: err}
		}

		s.metrics.RecordVerification(status.String())
		s.logger.InfoContext(ctx, "Tip verified",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("tip_id", tipID),
			attr.UUID("admin_id", adminID),
			attr.String("status", status.String()),
		)

		s.publishVerified(ctx, applied)

		return applied, nil
	})
}

// publishVerified emits the change notification. The verification itself
// has already committed; a failed publish only delays the next recompute,
// so it is logged rather than surfaced.
func (s *TipService) publishVerified(ctx context.Context, v *tipdomain.Verification) {
	payload, err := json.Marshal(tipevents.TipVerifiedPayload{
		TipID:          v.TipID,
		TipsterID:      v.TipsterID,
		Status:         v.Status,
		AdminID:        v.AdminID,
		VerifiedAt:     v.VerifiedAt,
		VerificationID: v.ID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal verification event",
			attr.UUID("tip_id", v.TipID),
			attr.Error(err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.eventBus.Publish(tipevents.TipVerified, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish verification event",
			attr.UUID("tip_id", v.TipID),
			attr.Error(fmt.Errorf("publish %s: %w", tipevents.TipVerified, err)),
		)
	}
}
