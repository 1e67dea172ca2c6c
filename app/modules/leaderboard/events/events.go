// Package leaderboardevents defines the topics and payloads the
// leaderboard module publishes.
package leaderboardevents

import (
	"time"

	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
)

const (
	// LeaderboardSnapshot carries a full replacement snapshot. Consumers
	// must discard prior state wholesale on receipt; merging a snapshot
	// into older data reintroduces staleness.
	LeaderboardSnapshot = "leaderboard.snapshot"
)

// SnapshotPayload is the published leaderboard snapshot.
type SnapshotPayload struct {
	Sequence   uint64                    `json:"sequence"`
	ComputedAt time.Time                 `json:"computed_at"`
	SortKey    leaderboarddomain.SortKey `json:"sort_key"`
	Entries    []leaderboarddomain.Entry `json:"entries"`
}
