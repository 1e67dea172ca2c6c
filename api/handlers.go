package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tipcircle/tipboard/internal/observability/attr"

	leaderboardservice "github.com/tipcircle/tipboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/tipcircle/tipboard/app/modules/leaderboard/domain"
	tipservice "github.com/tipcircle/tipboard/app/modules/tip/application"
	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	data, _ := json.Marshal(payload)
	w.Write(data)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Error: msg})
}

type verifyRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type verifyResponse struct {
	VerificationID uuid.UUID           `json:"verificationId"`
	TipID          uuid.UUID           `json:"tipId"`
	Status         tipdomain.TipStatus `json:"status"`
	VerifiedAt     time.Time           `json:"verifiedAt"`
}

// handleVerifyTip processes POST /admin/tips/{tipID}/verify.
func (s *Server) handleVerifyTip(w http.ResponseWriter, r *http.Request) {
	tipID, err := uuid.Parse(chi.URLParam(r, "tipID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tip id")
		return
	}

	adminID, ok := AdminID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing admin identity")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	status, err := tipdomain.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	verification, err := s.tips.Verify(r.Context(), tipID, status, adminID, req.Note)
	if err != nil {
		s.writeVerifyError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, verifyResponse{
		VerificationID: verification.ID,
		TipID:          verification.TipID,
		Status:         verification.Status,
		VerifiedAt:     verification.VerifiedAt,
	})
}

func (s *Server) writeVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidStatus *tipservice.InvalidStatusError
	var storeDown *tipservice.StoreUnavailableError
	switch {
	case errors.Is(err, tipservice.ErrTipNotFound):
		respondError(w, http.StatusNotFound, "tip not found")
	case errors.Is(err, tipservice.ErrMissingAdmin):
		respondError(w, http.StatusUnauthorized, "missing admin identity")
	case errors.As(err, &invalidStatus):
		respondError(w, http.StatusUnprocessableEntity, invalidStatus.Error())
	case errors.As(err, &storeDown):
		respondError(w, http.StatusServiceUnavailable, "store unavailable, retry later")
	default:
		s.logger.ErrorContext(r.Context(), "Verification failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// handleGetTip processes GET /tips/{tipID}.
func (s *Server) handleGetTip(w http.ResponseWriter, r *http.Request) {
	tipID, err := uuid.Parse(chi.URLParam(r, "tipID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tip id")
		return
	}

	tip, err := s.tips.GetTip(r.Context(), tipID)
	if err != nil {
		if errors.Is(err, tipservice.ErrTipNotFound) {
			respondError(w, http.StatusNotFound, "tip not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Tip lookup failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, tip)
}

// handleVerificationHistory processes GET /tips/{tipID}/verifications.
func (s *Server) handleVerificationHistory(w http.ResponseWriter, r *http.Request) {
	tipID, err := uuid.Parse(chi.URLParam(r, "tipID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tip id")
		return
	}

	history, err := s.tips.VerificationHistory(r.Context(), tipID)
	if err != nil {
		if errors.Is(err, tipservice.ErrTipNotFound) {
			respondError(w, http.StatusNotFound, "tip not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Verification history lookup failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// handleUserStats processes GET /users/{userID}/stats.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	stats, err := s.tips.GetUserStats(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "User stats lookup failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// handleUserBreakdownChart processes GET /users/{userID}/breakdown.png.
func (s *Server) handleUserBreakdownChart(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	stats, err := s.tips.GetUserStats(r.Context(), userID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "User stats lookup failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	png, err := leaderboardservice.GenerateSportBreakdownChart(stats, leaderboardservice.DefaultPalette)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart rendering failed", attr.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleLeaderboard processes GET /leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	key, err := sortKeyFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.leaderboard.Snapshot(r.Context(), key)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Leaderboard snapshot failed", attr.Error(err))
		respondError(w, http.StatusServiceUnavailable, "leaderboard unavailable, retry later")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleLeaderboardExport processes GET /leaderboard/export.
func (s *Server) handleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	key, err := sortKeyFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.leaderboard.Export(r.Context(), key)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Leaderboard export failed", attr.Error(err))
		respondError(w, http.StatusServiceUnavailable, "leaderboard unavailable, retry later")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func sortKeyFromQuery(r *http.Request) (leaderboarddomain.SortKey, error) {
	raw := r.URL.Query().Get("sort")
	if raw == "" {
		return leaderboarddomain.SortByWinRate, nil
	}
	return leaderboarddomain.ParseSortKey(raw)
}
