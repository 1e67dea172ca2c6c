package tipdb

import (
	"context"

	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// Repository defines the persistence contract for tips, verification
// records, and tipster profiles. It is the only seam touching the store;
// swapping the backing database means reimplementing this interface.
type Repository interface {
	// GetTip retrieves a tip by id. Returns ErrNotFound when missing.
	GetTip(ctx context.Context, tipID uuid.UUID) (*tipdomain.Tip, error)

	// ListTipsByUser returns every tip owned by the given user.
	ListTipsByUser(ctx context.Context, userID uuid.UUID) ([]tipdomain.Tip, error)

	// ListAllTips returns the full tip set across all users.
	ListAllTips(ctx context.Context) ([]tipdomain.Tip, error)

	// ApplyVerification atomically writes the tip's verification fields and
	// the verification record. A re-verification with identical outcome,
	// admin, and note updates the current record in place; a changed
	// outcome appends a new record, preserving history.
	ApplyVerification(ctx context.Context, v tipdomain.Verification) (*tipdomain.Verification, error)

	// CurrentVerification returns the newest verification record for a tip.
	// Returns ErrNotFound when the tip has never been verified.
	CurrentVerification(ctx context.Context, tipID uuid.UUID) (*tipdomain.Verification, error)

	// VerificationHistory returns all verification records for a tip,
	// newest first.
	VerificationHistory(ctx context.Context, tipID uuid.UUID) ([]tipdomain.Verification, error)

	// GetProfile retrieves a tipster profile by user id.
	GetProfile(ctx context.Context, userID uuid.UUID) (*tipdomain.UserProfile, error)

	// ListProfiles returns all tipster profiles keyed by user id.
	ListProfiles(ctx context.Context) (map[uuid.UUID]tipdomain.UserProfile, error)
}
