package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"menshub/internal/logger"
	"menshub/internal/services"
	"menshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MediaHandler serves AI rewriting and stock image search.
type MediaHandler struct {
	rewriter *services.Rewriter
	unsplash *services.UnsplashService
}

func NewMediaHandler(rewriter *services.Rewriter, unsplash *services.UnsplashService) *MediaHandler {
	return &MediaHandler{rewriter: rewriter, unsplash: unsplash}
}

type rewriteRequest struct {
	Provider string `json:"provider"`
	Tone     string `json:"tone"`
}

// RewriteArticle godoc
// @Summary Rewrite an article body with an AI provider (admin only)
// @Tags admin-media
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "Article ID"
// @Param input body rewriteRequest true "Provider and tone"
// @Success 200 {object} map[string]string
// @Failure 502 {string} string "Provider error"
// @Router /api/admin/articles/{id}/rewrite [post]
func (h *MediaHandler) RewriteArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req rewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	logger.Log.Info("rewrite requested",
		zap.Int64("article_id", id),
		zap.String("provider", req.Provider),
		zap.String("tone", req.Tone))

	rewritten, err := h.rewriter.Rewrite(r.Context(), id, req.Provider, req.Tone)
	if err != nil {
		logger.Log.Error("rewrite failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusBadGateway, "Rewrite failed: "+err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"content": rewritten})
}

// RewriteProviders godoc
// @Summary List configured rewrite providers (admin only)
// @Tags admin-media
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/admin/rewrite/providers [get]
func (h *MediaHandler) RewriteProviders(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, h.rewriter.Providers())
}

// SearchImages godoc
// @Summary Search stock photos (admin only)
// @Tags admin-media
// @Security ApiKeyAuth
// @Produce json
// @Param query query string true "Search query"
// @Param per_page query int false "Results per page, default 10"
// @Success 200 {array} services.UnsplashImage
// @Router /api/admin/images/search [get]
func (h *MediaHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		helpers.Error(w, http.StatusBadRequest, "Query is required")
		return
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = 10
	}

	images, err := h.unsplash.Search(r.Context(), query, perPage)
	if err != nil {
		logger.Log.Error("image search failed", zap.Error(err), zap.String("query", query))
		helpers.Error(w, http.StatusBadGateway, "Image search failed")
		return
	}

	helpers.JSON(w, http.StatusOK, images)
}
