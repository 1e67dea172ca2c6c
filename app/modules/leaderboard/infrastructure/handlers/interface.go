package leaderboardhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers defines the leaderboard module's event handlers.
type Handlers interface {
	// HandleTipVerified reacts to a tip verification event by scheduling
	// a leaderboard recompute.
	HandleTipVerified(msg *message.Message) error
}
