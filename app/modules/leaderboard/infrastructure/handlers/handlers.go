package leaderboardhandlers

import (
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tipcircle/tipboard/internal/observability/attr"

	leaderboardservice "github.com/tipcircle/tipboard/app/modules/leaderboard/application"
	tipevents "github.com/tipcircle/tipboard/app/modules/tip/events"
)

// LeaderboardHandlers implements Handlers on top of the leaderboard service.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

var _ Handlers = (*LeaderboardHandlers)(nil)

// NewLeaderboardHandlers creates a new LeaderboardHandlers.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
	}
}

// HandleTipVerified schedules a recompute. The payload carries which tip
// changed, but the recompute is always a full pass, so a decode failure is
// logged and the notification still counts.
func (h *LeaderboardHandlers) HandleTipVerified(msg *message.Message) error {
	ctx := msg.Context()

	var payload tipevents.TipVerifiedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.WarnContext(ctx, "Malformed tip verified payload, recomputing anyway",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
	} else {
		h.logger.InfoContext(ctx, "Tip verified, scheduling leaderboard recompute",
			attr.UUID("tip_id", payload.TipID),
			attr.String("status", string(payload.Status)),
			attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
		)
	}

	h.service.Notify()
	return nil
}
