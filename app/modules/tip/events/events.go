// Package tipevents defines the topics and payloads the tip module
// publishes on the event bus.
package tipevents

import (
	"time"

	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

const (
	// TipVerified carries every verification write, including corrective
	// re-verifications. Consumers treat it as a change notification, not as
	// the source of truth; they re-read the store on receipt.
	TipVerified = "tip.verified"
)

// TipVerifiedPayload is published after a verification commits.
type TipVerifiedPayload struct {
	TipID          uuid.UUID           `json:"tip_id"`
	TipsterID      uuid.UUID           `json:"tipster_id"`
	Status         tipdomain.TipStatus `json:"status"`
	AdminID        uuid.UUID           `json:"admin_id"`
	VerifiedAt     time.Time           `json:"verified_at"`
	VerificationID uuid.UUID           `json:"verification_id"`
}
