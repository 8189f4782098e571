package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/services"
	"menshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdHandler struct {
	adService *services.AdService
}

func NewAdHandler(adService *services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// CreateAd godoc
// @Summary Create an ad unit (admin only)
// @Tags admin-ads
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateAdRequest true "Ad payload"
// @Success 201 {object} map[string]int64
// @Router /api/admin/ads [post]
func (h *AdHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("invalid JSON on ad create", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Placement == "" {
		helpers.Error(w, http.StatusBadRequest, "Name and placement are required")
		return
	}

	ad := &models.Ad{
		Name:        req.Name,
		Placement:   req.Placement,
		HTMLSnippet: req.HTMLSnippet,
		TargetURL:   req.TargetURL,
		IsActive:    req.IsActive,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	id, err := h.adService.Create(r.Context(), ad)
	if err != nil {
		logger.Log.Error("ad create failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to create ad")
		return
	}

	logger.Log.Info("ad created", zap.Int64("ad_id", id), zap.String("placement", ad.Placement))
	helpers.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListAds godoc
// @Summary List all ad units (admin only)
// @Tags admin-ads
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Ad
// @Router /api/admin/ads [get]
func (h *AdHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adService.List(r.Context())
	if err != nil {
		logger.Log.Error("ad list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list ads")
		return
	}

	helpers.JSON(w, http.StatusOK, ads)
}

// ActiveAds godoc
// @Summary Active ads for a placement
// @Tags ads
// @Produce json
// @Param placement query string true "header, sidebar, in_article or footer"
// @Success 200 {array} models.Ad
// @Router /ads [get]
func (h *AdHandler) ActiveAds(w http.ResponseWriter, r *http.Request) {
	placement := r.URL.Query().Get("placement")
	ads, err := h.adService.ListActive(r.Context(), placement)
	if err != nil {
		logger.Log.Error("active ad list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list ads")
		return
	}

	helpers.JSON(w, http.StatusOK, ads)
}

// UpdateAd godoc
// @Summary Update an ad unit (admin only)
// @Tags admin-ads
// @Security ApiKeyAuth
// @Param id path int true "Ad ID"
// @Param input body models.CreateAdRequest true "New payload"
// @Success 200 {string} string "Updated"
// @Router /api/admin/ads/{id} [patch]
func (h *AdHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req models.CreateAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ad, err := h.adService.GetByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Ad not found")
		return
	}

	ad.Name = req.Name
	ad.Placement = req.Placement
	ad.HTMLSnippet = req.HTMLSnippet
	ad.TargetURL = req.TargetURL
	ad.IsActive = req.IsActive
	ad.StartsAt = req.StartsAt
	ad.EndsAt = req.EndsAt

	if err := h.adService.Update(r.Context(), ad); err != nil {
		logger.Log.Error("ad update failed", zap.Error(err), zap.Int64("ad_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to update ad")
		return
	}

	helpers.JSON(w, http.StatusOK, "Updated")
}

// SetAdActive godoc
// @Summary Activate or deactivate an ad (admin only)
// @Tags admin-ads
// @Security ApiKeyAuth
// @Param id path int true "Ad ID"
// @Param active query bool true "New state"
// @Success 200 {string} string "OK"
// @Router /api/admin/ads/{id}/active [post]
func (h *AdHandler) SetAdActive(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	active := r.URL.Query().Get("active") == "true"
	if err := h.adService.SetActive(r.Context(), id, active); err != nil {
		logger.Log.Error("ad state change failed", zap.Error(err), zap.Int64("ad_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to change state")
		return
	}

	logger.Log.Info("ad state changed", zap.Int64("ad_id", id), zap.Bool("active", active))
	helpers.JSON(w, http.StatusOK, "OK")
}

// DeleteAd godoc
// @Summary Delete an ad unit (admin only)
// @Tags admin-ads
// @Security ApiKeyAuth
// @Param id path int true "Ad ID"
// @Success 200 {string} string "Deleted"
// @Router /api/admin/ads/{id} [delete]
func (h *AdHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.adService.Delete(r.Context(), id); err != nil {
		logger.Log.Error("ad delete failed", zap.Error(err), zap.Int64("ad_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to delete ad")
		return
	}

	helpers.JSON(w, http.StatusOK, "Deleted")
}

// AdImpression godoc
// @Summary Record an ad impression
// @Tags ads
// @Param id path int true "Ad ID"
// @Success 204 {string} string ""
// @Router /ads/{id}/impression [post]
func (h *AdHandler) AdImpression(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.adService.RecordImpression(r.Context(), id); err != nil {
		logger.Log.Warn("impression record failed", zap.Error(err), zap.Int64("ad_id", id))
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdClick godoc
// @Summary Record an ad click and redirect to the target URL
// @Tags ads
// @Param id path int true "Ad ID"
// @Success 302 {string} string "Redirect"
// @Router /ads/{id}/click [get]
func (h *AdHandler) AdClick(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	ad, err := h.adService.GetByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Ad not found")
		return
	}

	if err := h.adService.RecordClick(r.Context(), id); err != nil {
		logger.Log.Warn("click record failed", zap.Error(err), zap.Int64("ad_id", id))
	}

	http.Redirect(w, r, ad.TargetURL, http.StatusFound)
}
