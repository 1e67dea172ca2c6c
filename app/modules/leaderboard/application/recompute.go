package leaderboardservice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tipcircle/tipboard/internal/observability/attr"

	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/tipcircle/tipboard/app/modules/leaderboard/events"
	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// Notify schedules a recompute after the debounce window. Notifications
// arriving while one is already scheduled are absorbed into it, so a burst
// of verification events produces exactly one recompute.
func (s *LeaderboardService) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.metrics.CoalescedEvents.Inc()
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		seq := s.nextRecompute()
		ctx := s.beginRecomputeLocked()
		s.mu.Unlock()

		s.recompute(ctx, seq)
	})
}

// nextRecompute allocates the next sequence number. Callers hold s.mu.
func (s *LeaderboardService) nextRecompute() uint64 {
	s.nextSeq++
	return s.nextSeq
}

// beginRecomputeLocked cancels any in-flight recompute and installs a new
// cancelable context for the next one. Callers hold s.mu.
func (s *LeaderboardService) beginRecomputeLocked() context.Context {
	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelInFlight = cancel
	return ctx
}

// recompute fetches a fresh snapshot of all tips and profiles, aggregates
// per user, and publishes the result unless a newer recompute already
// published. The whole pass is pure over the fetched snapshot, so
// concurrent cycles never corrupt shared state.
func (s *LeaderboardService) recompute(ctx context.Context, seq uint64) {
	ctx, span := s.tracer.Start(ctx, "RecomputeLeaderboard", trace.WithAttributes(
		attribute.Int64("sequence", int64(seq)),
	))
	defer span.End()

	startTime := time.Now()
	s.metrics.RecomputesTotal.Inc()

	summaries, err := s.buildSummaries(ctx)
	if err != nil {
		// The last successfully published snapshot stays in place:
		// stale-but-available beats unavailable.
		s.logger.ErrorContext(ctx, "Leaderboard recompute failed, keeping previous snapshot",
			attr.Int64("sequence", int64(seq)),
			attr.Error(err),
		)
		span.RecordError(err)
		return
	}

	s.metrics.RecomputeDuration.Observe(time.Since(startTime).Seconds())

	s.mu.Lock()
	if s.closed || seq <= s.publishedSeq {
		s.mu.Unlock()
		s.metrics.RecomputesSkipped.Inc()
		s.logger.InfoContext(ctx, "Discarding superseded recompute",
			attr.Int64("sequence", int64(seq)),
		)
		return
	}
	s.publishedSeq = seq
	s.latest = summaries
	s.haveSnapshot = true
	for _, sub := range s.subs {
		sub.deliver(leaderboarddomain.Rank(summaries, sub.key))
		s.metrics.SnapshotsPublished.Inc()
	}
	s.mu.Unlock()

	entries := leaderboarddomain.Rank(summaries, leaderboarddomain.SortByWinRate)
	s.metrics.RankedUsers.Set(float64(len(entries)))
	s.publishSnapshot(ctx, seq, entries)

	s.logger.InfoContext(ctx, "Leaderboard recomputed",
		attr.Int64("sequence", int64(seq)),
		attr.Int("tipsters", len(entries)),
		attr.Duration("took", time.Since(startTime)),
	)
}

// buildSummaries fetches all tips and profiles and aggregates per owner.
func (s *LeaderboardService) buildSummaries(ctx context.Context) ([]leaderboarddomain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	tips, err := s.repo.ListAllTips(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[uuid.UUID][]tipdomain.Tip)
	for _, t := range tips {
		byOwner[t.UserID] = append(byOwner[t.UserID], t)
	}

	summaries := make([]leaderboarddomain.UserSummary, 0, len(byOwner))
	for userID, owned := range byOwner {
		profile, ok := profiles[userID]
		if !ok {
			// Tip without a profile document; rank it under the bare id
			// rather than dropping the user's record.
			profile = tipdomain.UserProfile{ID: userID}
		}
		summaries = append(summaries, leaderboarddomain.UserSummary{
			Profile: profile,
			Stats:   tipdomain.ComputeUserStats(owned),
		})
	}
	return summaries, nil
}

// Snapshot returns the current leaderboard, computing one on demand when
// no recompute has published yet.
func (s *LeaderboardService) Snapshot(ctx context.Context, key leaderboarddomain.SortKey) ([]leaderboarddomain.Entry, error) {
	s.mu.Lock()
	if s.haveSnapshot {
		latest := s.latest
		s.mu.Unlock()
		return leaderboarddomain.Rank(latest, key), nil
	}
	s.mu.Unlock()

	summaries, err := s.buildSummaries(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.haveSnapshot {
		s.latest = summaries
		s.haveSnapshot = true
	} else {
		// A concurrent recompute published while we were fetching; prefer
		// its result.
		summaries = s.latest
	}
	s.mu.Unlock()

	return leaderboarddomain.Rank(summaries, key), nil
}

// publishSnapshot emits the replace-not-merge snapshot event for other
// processes. Failures are logged; in-process subscribers already got the
// snapshot.
func (s *LeaderboardService) publishSnapshot(ctx context.Context, seq uint64, entries []leaderboarddomain.Entry) {
	payload, err := json.Marshal(leaderboardevents.SnapshotPayload{
		Sequence:   seq,
		ComputedAt: time.Now().UTC(),
		SortKey:    leaderboarddomain.SortByWinRate,
		Entries:    entries,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal leaderboard snapshot", attr.Error(err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.eventBus.Publish(leaderboardevents.LeaderboardSnapshot, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish leaderboard snapshot", attr.Error(err))
	}
}
