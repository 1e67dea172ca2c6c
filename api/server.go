// Package api exposes the engine's operations over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/tipcircle/tipboard/config"

	leaderboardservice "github.com/tipcircle/tipboard/app/modules/leaderboard/application"
	tipservice "github.com/tipcircle/tipboard/app/modules/tip/application"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	tips        tipservice.Service
	leaderboard leaderboardservice.Service
	logger      *slog.Logger
}

// NewServer creates a new Server.
func NewServer(tips tipservice.Service, leaderboard leaderboardservice.Service, logger *slog.Logger) *Server {
	return &Server{
		tips:        tips,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// Routes builds the router. Admin routes require a valid bearer token;
// read routes are public behind the IP rate limiter.
func (s *Server) Routes(cfg config.HTTPConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogMiddleware(s.logger))
	r.Use(RateLimitMiddleware(NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))

	r.Route("/admin", func(r chi.Router) {
		r.Use(AdminAuthMiddleware([]byte(cfg.AdminJWTSecret)))
		r.Post("/tips/{tipID}/verify", s.handleVerifyTip)
	})

	r.Get("/tips/{tipID}", s.handleGetTip)
	r.Get("/tips/{tipID}/verifications", s.handleVerificationHistory)
	r.Get("/users/{userID}/stats", s.handleUserStats)
	r.Get("/users/{userID}/breakdown.png", s.handleUserBreakdownChart)
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/leaderboard/export", s.handleLeaderboardExport)

	return r
}
