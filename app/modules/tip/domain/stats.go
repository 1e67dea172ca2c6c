package tipdomain

import (
	"math"
	"slices"
	"strings"
)

// UserStats is the derived performance record for one tipster. It is
// recomputed from the tip set on every cycle, never mutated in place.
type UserStats struct {
	TotalTips      int          `json:"totalTips"`
	VerifiedTips   int          `json:"verifiedTips"`
	PendingTips    int          `json:"pendingTips"`
	TotalWins      int          `json:"totalWins"`
	TotalLosses    int          `json:"totalLosses"`
	WinRate        int          `json:"winRate"`
	AverageOdds    float64      `json:"averageOdds"`
	SportBreakdown []SportStats `json:"sportBreakdown"`
}

// SportStats is the per-sport slice of a user's record.
type SportStats struct {
	Sport   Sport `json:"sport"`
	Count   int   `json:"count"`
	WinRate int   `json:"winRate"`
}

// ComputeUserStats aggregates the full tip set owned by one user.
//
// Void and place tips count toward VerifiedTips (they consumed a
// verification) but toward neither wins nor losses, so a run of voided
// results lowers the win rate. Unparseable odds are excluded from the
// average.
func ComputeUserStats(tips []Tip) UserStats {
	stats := UserStats{
		TotalTips:      len(tips),
		SportBreakdown: []SportStats{},
	}

	var oddsSum float64
	var oddsCount int

	bySport := make(map[Sport][]Tip)

	for _, t := range tips {
		if t.IsVerified() {
			stats.VerifiedTips++
		}
		switch t.Status {
		case StatusWin:
			stats.TotalWins++
		case StatusLoss:
			stats.TotalLosses++
		}

		if v, ok := ParseOdds(t.Odds); ok {
			oddsSum += v
			oddsCount++
		}

		bySport[t.Sport] = append(bySport[t.Sport], t)
	}

	stats.PendingTips = stats.TotalTips - stats.VerifiedTips
	stats.WinRate = winRate(stats.TotalWins, stats.VerifiedTips)

	if oddsCount > 0 {
		stats.AverageOdds = oddsSum / float64(oddsCount)
	}

	for sport, sportTips := range bySport {
		var wins, verified int
		for _, t := range sportTips {
			if t.IsVerified() {
				verified++
			}
			if t.Status == StatusWin {
				wins++
			}
		}
		stats.SportBreakdown = append(stats.SportBreakdown, SportStats{
			Sport:   sport,
			Count:   len(sportTips),
			WinRate: winRate(wins, verified),
		})
	}

	slices.SortFunc(stats.SportBreakdown, func(a, b SportStats) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(string(a.Sport), string(b.Sport))
	})

	return stats
}

// winRate is wins over verified non-pending tips as a rounded percentage.
func winRate(wins, verified int) int {
	if verified == 0 {
		return 0
	}
	return int(math.Round(100 * float64(wins) / float64(verified)))
}
