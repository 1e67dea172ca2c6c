package leaderboarddomain

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

func summary(name string, stats tipdomain.UserStats) UserSummary {
	return UserSummary{
		Profile: tipdomain.UserProfile{
			ID:     uuid.New(),
			Name:   name,
			Handle: "@" + name,
		},
		Stats: stats,
	}
}

func TestRankOrdersByWinRateDescending(t *testing.T) {
	in := []UserSummary{
		summary("low", tipdomain.UserStats{TotalTips: 4, VerifiedTips: 4, WinRate: 25}),
		summary("high", tipdomain.UserStats{TotalTips: 4, VerifiedTips: 4, WinRate: 75}),
		summary("mid", tipdomain.UserStats{TotalTips: 4, VerifiedTips: 4, WinRate: 50}),
	}

	out := Rank(in, SortByWinRate)

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i, want := range []string{"high", "mid", "low"} {
		if out[i].DisplayName != want {
			t.Fatalf("position %d = %s, want %s", i+1, out[i].DisplayName, want)
		}
		if out[i].Position != i+1 {
			t.Fatalf("entry %d has position %d", i, out[i].Position)
		}
	}
}

func TestRankNameTieBreak(t *testing.T) {
	amy := summary("Amy", tipdomain.UserStats{TotalTips: 3, VerifiedTips: 3, WinRate: 66})
	ben := summary("Ben", tipdomain.UserStats{TotalTips: 3, VerifiedTips: 3, WinRate: 66})

	out := Rank([]UserSummary{ben, amy}, SortByWinRate)

	if out[0].DisplayName != "Amy" || out[1].DisplayName != "Ben" {
		t.Fatalf("tie-break order wrong: got %s then %s", out[0].DisplayName, out[1].DisplayName)
	}
}

func TestRankVerifiedCountBreaksTiesBeforeName(t *testing.T) {
	zed := summary("Zed", tipdomain.UserStats{TotalTips: 10, VerifiedTips: 9, WinRate: 50})
	amy := summary("Amy", tipdomain.UserStats{TotalTips: 10, VerifiedTips: 4, WinRate: 50})

	out := Rank([]UserSummary{amy, zed}, SortByWinRate)

	if out[0].DisplayName != "Zed" {
		t.Fatalf("expected higher verified count first, got %s", out[0].DisplayName)
	}
}

func TestRankExcludesZeroTipUsers(t *testing.T) {
	out := Rank([]UserSummary{
		summary("active", tipdomain.UserStats{TotalTips: 1, PendingTips: 1}),
		summary("lurker", tipdomain.UserStats{}),
	}, SortByTotalTips)

	if len(out) != 1 || out[0].DisplayName != "active" {
		t.Fatalf("zero-tip user must be excluded, got %v", out)
	}
}

func TestRankDeterministicUnderPermutation(t *testing.T) {
	var in []UserSummary
	for i := 0; i < 20; i++ {
		in = append(in, summary(string(rune('A'+i%5))+"user", tipdomain.UserStats{
			TotalTips:    5 + i%3,
			VerifiedTips: 3 + i%4,
			WinRate:      (i * 17) % 101,
			TotalWins:    i % 4,
		}))
	}

	base := Rank(in, SortByWinRate)

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 10; round++ {
		shuffled := make([]UserSummary, len(in))
		copy(shuffled, in)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Rank(shuffled, SortByWinRate)
		if diff := cmp.Diff(base, got); diff != "" {
			t.Fatalf("ranking changed under input permutation (-want +got):\n%s", diff)
		}
	}
}

func TestRankPositionsAreDenseAndUnique(t *testing.T) {
	in := []UserSummary{
		summary("a", tipdomain.UserStats{TotalTips: 2, VerifiedTips: 2, WinRate: 50}),
		summary("b", tipdomain.UserStats{TotalTips: 2, VerifiedTips: 2, WinRate: 50}),
		summary("c", tipdomain.UserStats{TotalTips: 2, VerifiedTips: 2, WinRate: 50}),
	}

	out := Rank(in, SortByWinRate)

	seen := map[int]bool{}
	for i, e := range out {
		if e.Position != i+1 {
			t.Fatalf("positions must be dense, entry %d has %d", i, e.Position)
		}
		if seen[e.Position] {
			t.Fatalf("duplicate position %d", e.Position)
		}
		seen[e.Position] = true
	}
}

func TestRankSortKeys(t *testing.T) {
	heavy := summary("heavy", tipdomain.UserStats{TotalTips: 20, VerifiedTips: 10, PendingTips: 10, TotalWins: 2, TotalLosses: 8, WinRate: 20, AverageOdds: 2.0})
	sharp := summary("sharp", tipdomain.UserStats{TotalTips: 5, VerifiedTips: 5, PendingTips: 0, TotalWins: 4, TotalLosses: 1, WinRate: 80, AverageOdds: 6.5})

	tests := []struct {
		key  SortKey
		want string
	}{
		{SortByWinRate, "sharp"},
		{SortByTotalTips, "heavy"},
		{SortByTotalWins, "sharp"},
		{SortByTotalLosses, "heavy"},
		{SortByAverageOdds, "sharp"},
		{SortByPendingTips, "heavy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			out := Rank([]UserSummary{heavy, sharp}, tt.key)
			if out[0].DisplayName != tt.want {
				t.Fatalf("sort key %s: first = %s, want %s", tt.key, out[0].DisplayName, tt.want)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"winrate", "tips", "wins", "losses", "odds", "pending"} {
		if _, err := ParseSortKey(valid); err != nil {
			t.Fatalf("ParseSortKey(%q) returned error: %v", valid, err)
		}
	}
	if _, err := ParseSortKey("elo"); err == nil {
		t.Fatal("ParseSortKey(\"elo\") expected error")
	}
}
