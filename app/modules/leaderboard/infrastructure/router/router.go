// Package leaderboardrouter wires the leaderboard module's event handlers
// onto a watermill router.
package leaderboardrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tipcircle/tipboard/internal/eventbus"

	leaderboardhandlers "github.com/tipcircle/tipboard/app/modules/leaderboard/infrastructure/handlers"
	tipevents "github.com/tipcircle/tipboard/app/modules/tip/events"
)

// LeaderboardRouter owns the module's subscriptions.
type LeaderboardRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new LeaderboardRouter. A nil registry
// disables router metrics, which tests use.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	prometheusRegistry *prometheus.Registry,
) *LeaderboardRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "tipboard", "leaderboard")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		metricsBuilder: metricsBuilder,
	}
}

// Configure sets up middlewares and registers the module's handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	r.logger.InfoContext(ctx, "Registering leaderboard event handlers")

	r.Router.AddNoPublisherHandler(
		"leaderboard.tip_verified",
		tipevents.TipVerified,
		r.subscriber,
		handlers.HandleTipVerified,
	)

	return nil
}

// Close stops the router.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
