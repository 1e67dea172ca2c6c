// Package leaderboarddomain holds the pure ranking logic: given per-user
// statistics, produce a strictly ordered leaderboard.
package leaderboarddomain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// SortKey selects the metric a leaderboard is ordered by.
type SortKey string

const (
	SortByWinRate     SortKey = "winrate"
	SortByTotalTips   SortKey = "tips"
	SortByTotalWins   SortKey = "wins"
	SortByTotalLosses SortKey = "losses"
	SortByAverageOdds SortKey = "odds"
	SortByPendingTips SortKey = "pending"
)

// ParseSortKey validates a raw sort key string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByWinRate, SortByTotalTips, SortByTotalWins, SortByTotalLosses, SortByAverageOdds, SortByPendingTips:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// UserSummary pairs a tipster's profile with their aggregated statistics.
type UserSummary struct {
	Profile tipdomain.UserProfile
	Stats   tipdomain.UserStats
}

// Entry is one ranked leaderboard row. Display fields are passed through
// from the profile untouched.
type Entry struct {
	UserID      uuid.UUID           `json:"userId"`
	DisplayName string              `json:"displayName"`
	Handle      string              `json:"handle"`
	AvatarURL   string              `json:"avatarUrl"`
	Verified    bool                `json:"verified"`
	Stats       tipdomain.UserStats `json:"stats"`
	Position    int                 `json:"position"`
}

// Rank orders the given summaries descending by the chosen key and assigns
// dense 1-based positions. Users with zero tips are excluded entirely.
//
// Ties are broken by higher verified-tip count, then lexicographically
// smaller display name, then smaller user id, which makes the output a
// strict total order regardless of input order.
func Rank(summaries []UserSummary, key SortKey) []Entry {
	ranked := make([]UserSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Stats.TotalTips > 0 {
			ranked = append(ranked, s)
		}
	}

	slices.SortFunc(ranked, func(a, b UserSummary) int {
		av, bv := metric(a.Stats, key), metric(b.Stats, key)
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		if a.Stats.VerifiedTips != b.Stats.VerifiedTips {
			return b.Stats.VerifiedTips - a.Stats.VerifiedTips
		}
		if c := strings.Compare(a.Profile.Name, b.Profile.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Profile.ID.String(), b.Profile.ID.String())
	})

	entries := make([]Entry, 0, len(ranked))
	for i, s := range ranked {
		entries = append(entries, Entry{
			UserID:      s.Profile.ID,
			DisplayName: s.Profile.Name,
			Handle:      s.Profile.Handle,
			AvatarURL:   s.Profile.AvatarURL,
			Verified:    s.Profile.Verified,
			Stats:       s.Stats,
			Position:    i + 1,
		})
	}
	return entries
}

func metric(stats tipdomain.UserStats, key SortKey) float64 {
	switch key {
	case SortByTotalTips:
		return float64(stats.TotalTips)
	case SortByTotalWins:
		return float64(stats.TotalWins)
	case SortByTotalLosses:
		return float64(stats.TotalLosses)
	case SortByAverageOdds:
		return stats.AverageOdds
	case SortByPendingTips:
		return float64(stats.PendingTips)
	default:
		return float64(stats.WinRate)
	}
}
