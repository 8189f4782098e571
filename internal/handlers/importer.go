package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"
	"menshub/internal/services"
	"menshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ImporterHandler struct {
	importer *services.Importer
	sources  repository.ImportSourceRepo
}

func NewImporterHandler(importer *services.Importer, sources repository.ImportSourceRepo) *ImporterHandler {
	return &ImporterHandler{importer: importer, sources: sources}
}

type importSourceRequest struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	URL           string `json:"url"`
	Category      string `json:"category"`
	IsActive      bool   `json:"is_active"`
	TitleSelector string `json:"title_selector"`
	BodySelector  string `json:"body_selector"`
	ImageSelector string `json:"image_selector"`
}

// CreateSource godoc
// @Summary Register an import source (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body importSourceRequest true "Source payload"
// @Success 201 {object} map[string]int64
// @Router /api/admin/import/sources [post]
func (h *ImporterHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req importSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Kind != models.ImportKindRSS && req.Kind != models.ImportKindScrape {
		helpers.Error(w, http.StatusBadRequest, "Kind must be rss or scrape")
		return
	}
	if req.URL == "" {
		helpers.Error(w, http.StatusBadRequest, "URL is required")
		return
	}

	src := &models.ImportSource{
		Name:          req.Name,
		Kind:          req.Kind,
		URL:           req.URL,
		Category:      req.Category,
		IsActive:      req.IsActive,
		TitleSelector: req.TitleSelector,
		BodySelector:  req.BodySelector,
		ImageSelector: req.ImageSelector,
	}

	id, err := h.sources.Create(r.Context(), src)
	if err != nil {
		logger.Log.Error("source create failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to create source")
		return
	}

	logger.Log.Info("import source created", zap.Int64("source_id", id), zap.String("kind", req.Kind))
	helpers.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListSources godoc
// @Summary List import sources (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ImportSource
// @Router /api/admin/import/sources [get]
func (h *ImporterHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.List(r.Context())
	if err != nil {
		logger.Log.Error("source list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list sources")
		return
	}

	helpers.JSON(w, http.StatusOK, sources)
}

// UpdateSource godoc
// @Summary Update an import source (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Param id path int true "Source ID"
// @Param input body importSourceRequest true "New payload"
// @Success 200 {string} string "Updated"
// @Router /api/admin/import/sources/{id} [patch]
func (h *ImporterHandler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req importSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	src, err := h.sources.GetByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Source not found")
		return
	}

	src.Name = req.Name
	src.Kind = req.Kind
	src.URL = req.URL
	src.Category = req.Category
	src.IsActive = req.IsActive
	src.TitleSelector = req.TitleSelector
	src.BodySelector = req.BodySelector
	src.ImageSelector = req.ImageSelector

	if err := h.sources.Update(r.Context(), src); err != nil {
		logger.Log.Error("source update failed", zap.Error(err), zap.Int64("source_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to update source")
		return
	}

	helpers.JSON(w, http.StatusOK, "Updated")
}

// DeleteSource godoc
// @Summary Delete an import source (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Param id path int true "Source ID"
// @Success 200 {string} string "Deleted"
// @Router /api/admin/import/sources/{id} [delete]
func (h *ImporterHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.sources.Delete(r.Context(), id); err != nil {
		logger.Log.Error("source delete failed", zap.Error(err), zap.Int64("source_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to delete source")
		return
	}

	helpers.JSON(w, http.StatusOK, "Deleted")
}

// RunSource godoc
// @Summary Run a single import source now (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Source ID"
// @Success 200 {object} models.ImportReport
// @Router /api/admin/import/sources/{id}/run [post]
func (h *ImporterHandler) RunSource(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	logger.Log.Info("manual import run", zap.Int64("source_id", id))

	report, err := h.importer.RunSource(r.Context(), id)
	if err != nil {
		logger.Log.Error("import run failed", zap.Error(err), zap.Int64("source_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Import failed")
		return
	}

	helpers.JSON(w, http.StatusOK, report)
}

// RunAllSources godoc
// @Summary Run every active import source (admin only)
// @Tags admin-import
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ImportReport
// @Router /api/admin/import/run [post]
func (h *ImporterHandler) RunAllSources(w http.ResponseWriter, r *http.Request) {
	logger.Log.Info("manual import run for all sources")

	reports, err := h.importer.RunAll(r.Context())
	if err != nil {
		logger.Log.Error("bulk import failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Import failed")
		return
	}

	helpers.JSON(w, http.StatusOK, reports)
}
