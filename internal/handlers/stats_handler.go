// internal/handlers/stats_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"revocab/internal/middleware"
	"revocab/internal/service"
	"revocab/internal/webutil"
)

type StatsHandler struct {
	statsService  service.StatsService
	streakService service.StreakService
	logger        *slog.Logger
}

func NewStatsHandler(stats service.StatsService, streak service.StreakService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		statsService:  stats,
		streakService: streak,
		logger:        logger,
	}
}

// GetStats は全セット横断の学習統計を返すハンドラ
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStats"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	stats, err := h.statsService.GetStats(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting stats from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetStreak は連続学習日数を返すハンドラ
func (h *StatsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	streak, err := h.streakService.GetStreak(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting streak from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, streak, logger)
}
