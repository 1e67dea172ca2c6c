// Package app assembles the engine: store, event bus, modules, routers,
// and the HTTP front door.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"

	"github.com/tipcircle/tipboard/api"
	"github.com/tipcircle/tipboard/config"
	"github.com/tipcircle/tipboard/internal/eventbus"
	"github.com/tipcircle/tipboard/internal/observability"
	"github.com/tipcircle/tipboard/internal/observability/attr"

	leaderboardservice "github.com/tipcircle/tipboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/tipcircle/tipboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/tipcircle/tipboard/app/modules/leaderboard/infrastructure/router"
	tipservice "github.com/tipcircle/tipboard/app/modules/tip/application"
	tipdb "github.com/tipcircle/tipboard/app/modules/tip/infrastructure/repositories"
)

// App owns every long-lived component.
type App struct {
	Cfg    *config.Config
	Logger *slog.Logger

	db       *bun.DB
	eventBus eventbus.EventBus
	registry *prometheus.Registry

	TipService         tipservice.Service
	LeaderboardService leaderboardservice.Service

	router        *message.Router
	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp wires the application together from configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	wmLogger := watermill.NewSlogLogger(logger)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	bus, err := eventbus.NewNATSEventBus(cfg.NATS.URL, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	tracer := otel.Tracer("tipboard")

	repo := tipdb.NewTipRepository(db)

	tips := tipservice.NewTipService(
		repo,
		bus,
		logger,
		observability.NewTipMetrics(registry),
		tracer,
		cfg.Engine.StoreTimeout,
	)

	leaderboard := leaderboardservice.NewLeaderboardService(
		repo,
		bus,
		logger,
		observability.NewLeaderboardMetrics(registry),
		tracer,
		cfg.Engine.DebounceWindow,
		cfg.Engine.StoreTimeout,
	)

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, bus, registry)
	if err := lbRouter.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(leaderboard, logger)); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	apiServer := api.NewServer(tips, leaderboard, logger)

	app := &App{
		Cfg:                cfg,
		Logger:             logger,
		db:                 db,
		eventBus:           bus,
		registry:           registry,
		TipService:         tips,
		LeaderboardService: leaderboard,
		router:             router,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           apiServer.Routes(cfg.HTTP),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// Run starts the message router and HTTP servers and blocks until ctx is
// canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	go func() {
		if err := a.router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	go func() {
		a.Logger.Info("API server listening", attr.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("api server stopped: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.Logger.Info("Metrics server listening", attr.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("metrics server stopped: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts everything down in reverse dependency order.
func (a *App) Close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Failed to stop API server", attr.Error(err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Failed to stop metrics server", attr.Error(err))
		}
	}
	if err := a.router.Close(); err != nil {
		a.Logger.Error("Failed to stop message router", attr.Error(err))
	}
	a.LeaderboardService.Close()
	if err := a.eventBus.Close(); err != nil {
		a.Logger.Error("Failed to close event bus", attr.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("Failed to close database", attr.Error(err))
	}
}
