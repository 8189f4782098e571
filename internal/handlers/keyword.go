package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"
	"menshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type KeywordHandler struct {
	keywords repository.KeywordRepo
}

func NewKeywordHandler(keywords repository.KeywordRepo) *KeywordHandler {
	return &KeywordHandler{keywords: keywords}
}

type keywordRequest struct {
	Keyword       string `json:"keyword"`
	URL           string `json:"url"`
	Kind          string `json:"kind"`
	MaxPerArticle int    `json:"max_per_article"`
	IsActive      bool   `json:"is_active"`
}

// CreateKeyword godoc
// @Summary Create a keyword link (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body keywordRequest true "Keyword payload"
// @Success 201 {object} map[string]int64
// @Router /api/admin/keywords [post]
func (h *KeywordHandler) CreateKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Keyword == "" || req.URL == "" {
		helpers.Error(w, http.StatusBadRequest, "Keyword and URL are required")
		return
	}
	if req.Kind != models.KeywordKindInternal && req.Kind != models.KeywordKindAffiliate {
		helpers.Error(w, http.StatusBadRequest, "Kind must be internal or affiliate")
		return
	}
	if req.MaxPerArticle <= 0 {
		req.MaxPerArticle = 1
	}

	k := &models.KeywordLink{
		Keyword:       req.Keyword,
		URL:           req.URL,
		Kind:          req.Kind,
		MaxPerArticle: req.MaxPerArticle,
		IsActive:      req.IsActive,
	}

	id, err := h.keywords.Create(r.Context(), k)
	if err != nil {
		logger.Log.Error("keyword create failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to create keyword")
		return
	}

	logger.Log.Info("keyword created", zap.Int64("keyword_id", id), zap.String("keyword", req.Keyword))
	helpers.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListKeywords godoc
// @Summary List keyword links (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.KeywordLink
// @Router /api/admin/keywords [get]
func (h *KeywordHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.keywords.List(r.Context())
	if err != nil {
		logger.Log.Error("keyword list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list keywords")
		return
	}

	helpers.JSON(w, http.StatusOK, keywords)
}

// UpdateKeyword godoc
// @Summary Update a keyword link (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Param id path int true "Keyword ID"
// @Param input body keywordRequest true "New payload"
// @Success 200 {string} string "Updated"
// @Router /api/admin/keywords/{id} [patch]
func (h *KeywordHandler) UpdateKeyword(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	k := &models.KeywordLink{
		ID:            id,
		Keyword:       req.Keyword,
		URL:           req.URL,
		Kind:          req.Kind,
		MaxPerArticle: req.MaxPerArticle,
		IsActive:      req.IsActive,
	}

	if err := h.keywords.Update(r.Context(), k); err != nil {
		logger.Log.Error("keyword update failed", zap.Error(err), zap.Int64("keyword_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to update keyword")
		return
	}

	helpers.JSON(w, http.StatusOK, "Updated")
}

// DeleteKeyword godoc
// @Summary Delete a keyword link (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Param id path int true "Keyword ID"
// @Success 200 {string} string "Deleted"
// @Router /api/admin/keywords/{id} [delete]
func (h *KeywordHandler) DeleteKeyword(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.keywords.Delete(r.Context(), id); err != nil {
		logger.Log.Error("keyword delete failed", zap.Error(err), zap.Int64("keyword_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to delete keyword")
		return
	}

	helpers.JSON(w, http.StatusOK, "Deleted")
}
