package handlers

import (
	"net/http"

	"menshub/internal/logger"
	"menshub/internal/repository"
	"menshub/internal/utils/helpers"

	"go.uber.org/zap"
)

type StatsHandler struct {
	stats repository.StatsRepo
}

func NewStatsHandler(stats repository.StatsRepo) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard godoc
// @Summary Content and autoposting counters (admin only)
// @Tags admin-stats
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.ContentStats
// @Router /api/admin/stats [get]
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ContentStats(r.Context())
	if err != nil {
		logger.Log.Error("stats query failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	helpers.JSON(w, http.StatusOK, stats)
}
