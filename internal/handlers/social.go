package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"
	"menshub/internal/services"
	"menshub/internal/socialapi"
	"menshub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SocialHandler exposes the autoposting subsystem: queue state, the
// detector, automation rules, platform credentials and posting schedules.
type SocialHandler struct {
	detector   *services.Detector
	queue      *services.Queue
	automation *services.AutomationService
	syncer     *services.EngagementSyncer
	manager    *socialapi.Manager

	rules     repository.AutomationRuleRepo
	platforms repository.PlatformRepo
	articles  repository.ArticleRepo

	detectorInterval time.Duration
	queueInterval    time.Duration
}

func NewSocialHandler(
	detector *services.Detector,
	queue *services.Queue,
	automation *services.AutomationService,
	syncer *services.EngagementSyncer,
	manager *socialapi.Manager,
	rules repository.AutomationRuleRepo,
	platforms repository.PlatformRepo,
	articles repository.ArticleRepo,
	detectorInterval, queueInterval time.Duration,
) *SocialHandler {
	return &SocialHandler{
		detector:         detector,
		queue:            queue,
		automation:       automation,
		syncer:           syncer,
		manager:          manager,
		rules:            rules,
		platforms:        platforms,
		articles:         articles,
		detectorInterval: detectorInterval,
		queueInterval:    queueInterval,
	}
}

// QueueStatus godoc
// @Summary Queue counters by status (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.QueueStatusCounts
// @Router /api/admin/social-marketing/queue/status [get]
func (h *SocialHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.queue.Status(r.Context())
	if err != nil {
		logger.Log.Error("queue status failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to read queue status")
		return
	}

	helpers.JSON(w, http.StatusOK, counts)
}

// RetryQueueItem godoc
// @Summary Reset a failed queue item for another attempt (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Param id path int true "Queue item ID"
// @Success 200 {string} string "Requeued"
// @Router /api/admin/social-marketing/queue/{id}/retry [post]
func (h *SocialHandler) RetryQueueItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.queue.Retry(r.Context(), id); err != nil {
		logger.Log.Error("queue retry failed", zap.Error(err), zap.Int64("item_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to requeue item")
		return
	}

	logger.Log.Info("queue item requeued", zap.Int64("item_id", id))
	helpers.JSON(w, http.StatusOK, "Requeued")
}

// ProcessQueueNow godoc
// @Summary Run one queue batch immediately (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/admin/social-marketing/queue/process [post]
func (h *SocialHandler) ProcessQueueNow(w http.ResponseWriter, r *http.Request) {
	processed, err := h.queue.ProcessQueue(r.Context())
	if err != nil {
		logger.Log.Error("manual queue batch failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Queue batch failed")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]int{"processed": processed})
}

// CleanupQueue godoc
// @Summary Remove completed queue items older than N days (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Param days query int false "Age threshold in days, default 7"
// @Success 200 {object} map[string]int64
// @Router /api/admin/social-marketing/queue/cleanup [post]
func (h *SocialHandler) CleanupQueue(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 7
	}

	removed, err := h.queue.Cleanup(r.Context(), days)
	if err != nil {
		logger.Log.Error("queue cleanup failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	logger.Log.Info("queue cleaned up", zap.Int64("removed", removed), zap.Int("days", days))
	helpers.JSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

// StartAutoposting godoc
// @Summary Start the detector and queue workers (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Success 200 {string} string "Started"
// @Router /api/admin/social-marketing/autopost/start [post]
func (h *SocialHandler) StartAutoposting(w http.ResponseWriter, r *http.Request) {
	h.detector.StartMonitoring(h.detectorInterval)
	h.queue.StartProcessing(h.queueInterval)

	logger.Log.Info("autoposting started")
	helpers.JSON(w, http.StatusOK, "Started")
}

// StopAutoposting godoc
// @Summary Stop the detector and queue workers (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Success 200 {string} string "Stopped"
// @Router /api/admin/social-marketing/autopost/stop [post]
func (h *SocialHandler) StopAutoposting(w http.ResponseWriter, r *http.Request) {
	h.detector.StopMonitoring()
	h.queue.StopProcessing()

	logger.Log.Info("autoposting stopped")
	helpers.JSON(w, http.StatusOK, "Stopped")
}

// AutopostStatus godoc
// @Summary Detector and queue worker state (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/social-marketing/autopost/status [get]
func (h *SocialHandler) AutopostStatus(w http.ResponseWriter, r *http.Request) {
	status := h.detector.Status()
	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"detector":      status,
		"queue_running": h.queue.Running(),
		"rate_limits":   h.manager.RateLimits(),
	})
}

// CheckNow godoc
// @Summary Run one detector pass immediately (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/admin/social-marketing/detect [post]
func (h *SocialHandler) CheckNow(w http.ResponseWriter, r *http.Request) {
	queued, err := h.detector.CheckForNewArticles(r.Context())
	if err != nil {
		logger.Log.Error("manual detector pass failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Detector pass failed")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]int{"queued": queued})
}

// DetectArticle godoc
// @Summary Run rule matching and queueing for one article (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Param articleID path int true "Article ID"
// @Success 200 {object} map[string]int
// @Router /api/admin/social-marketing/detect/{articleID} [post]
func (h *SocialHandler) DetectArticle(w http.ResponseWriter, r *http.Request) {
	articleID, _ := strconv.ParseInt(mux.Vars(r)["articleID"], 10, 64)
	queued, err := h.detector.DetectArticle(r.Context(), articleID)
	if err != nil {
		logger.Log.Error("article detect failed", zap.Error(err), zap.Int64("article_id", articleID))
		helpers.Error(w, http.StatusInternalServerError, "Detect failed")
		return
	}

	logger.Log.Info("article detect done", zap.Int64("article_id", articleID), zap.Int("queued", queued))
	helpers.JSON(w, http.StatusOK, map[string]int{"queued": queued})
}

type ruleRequest struct {
	Name       string                `json:"name"`
	RuleType   string                `json:"rule_type"`
	Conditions models.RuleConditions `json:"conditions"`
	Platforms  []string              `json:"platforms"`
	IsActive   bool                  `json:"is_active"`
	Priority   int                   `json:"priority"`
}

// CreateRule godoc
// @Summary Create an automation rule (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body ruleRequest true "Rule payload"
// @Success 201 {object} map[string]int64
// @Router /api/admin/social-marketing/rules [post]
func (h *SocialHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || len(req.Platforms) == 0 {
		helpers.Error(w, http.StatusBadRequest, "Name and platforms are required")
		return
	}

	rule := &models.AutomationRule{
		Name:       req.Name,
		RuleType:   req.RuleType,
		Conditions: req.Conditions,
		Platforms:  req.Platforms,
		IsActive:   req.IsActive,
		Priority:   req.Priority,
	}

	id, err := h.rules.Create(r.Context(), rule)
	if err != nil {
		logger.Log.Error("rule create failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to create rule")
		return
	}

	logger.Log.Info("automation rule created", zap.Int64("rule_id", id), zap.String("name", req.Name))
	helpers.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// ListRules godoc
// @Summary List automation rules (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.AutomationRule
// @Router /api/admin/social-marketing/rules [get]
func (h *SocialHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.List(r.Context())
	if err != nil {
		logger.Log.Error("rule list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list rules")
		return
	}

	helpers.JSON(w, http.StatusOK, rules)
}

// UpdateRule godoc
// @Summary Update an automation rule (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Param id path int true "Rule ID"
// @Param input body ruleRequest true "New payload"
// @Success 200 {string} string "Updated"
// @Router /api/admin/social-marketing/rules/{id} [patch]
func (h *SocialHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	rule := &models.AutomationRule{
		ID:         id,
		Name:       req.Name,
		RuleType:   req.RuleType,
		Conditions: req.Conditions,
		Platforms:  req.Platforms,
		IsActive:   req.IsActive,
		Priority:   req.Priority,
	}

	if err := h.rules.Update(r.Context(), rule); err != nil {
		logger.Log.Error("rule update failed", zap.Error(err), zap.Int64("rule_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to update rule")
		return
	}

	helpers.JSON(w, http.StatusOK, "Updated")
}

// DeleteRule godoc
// @Summary Delete an automation rule (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Param id path int true "Rule ID"
// @Success 200 {string} string "Deleted"
// @Router /api/admin/social-marketing/rules/{id} [delete]
func (h *SocialHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.rules.Delete(r.Context(), id); err != nil {
		logger.Log.Error("rule delete failed", zap.Error(err), zap.Int64("rule_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to delete rule")
		return
	}

	helpers.JSON(w, http.StatusOK, "Deleted")
}

// TestRules godoc
// @Summary Dry-run rule matching against an article (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Param articleID path int true "Article ID"
// @Success 200 {object} services.RuleMatch
// @Router /api/admin/social-marketing/rules/test/{articleID} [get]
func (h *SocialHandler) TestRules(w http.ResponseWriter, r *http.Request) {
	articleID, _ := strconv.ParseInt(mux.Vars(r)["articleID"], 10, 64)
	article, err := h.articles.GetByID(r.Context(), articleID)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Article not found")
		return
	}

	match, err := h.automation.TestArticle(r.Context(), article)
	if err != nil {
		logger.Log.Error("rule test failed", zap.Error(err), zap.Int64("article_id", articleID))
		helpers.Error(w, http.StatusInternalServerError, "Rule test failed")
		return
	}

	helpers.JSON(w, http.StatusOK, match)
}

type credentialsRequest struct {
	Credentials map[string]string `json:"credentials"`
	IsActive    bool              `json:"is_active"`
}

// ListPlatforms godoc
// @Summary List platform connections without secrets (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.PlatformCredentials
// @Router /api/admin/social-marketing/platforms [get]
func (h *SocialHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.platforms.ListPlatforms(r.Context())
	if err != nil {
		logger.Log.Error("platform list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list platforms")
		return
	}

	// Secrets stay server side. Only key names go out.
	for _, p := range platforms {
		masked := make(map[string]string, len(p.Credentials))
		for k := range p.Credentials {
			masked[k] = "•••"
		}
		p.Credentials = masked
	}

	helpers.JSON(w, http.StatusOK, platforms)
}

// UpsertCredentials godoc
// @Summary Save platform credentials (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Accept json
// @Param platform path string true "facebook, twitter, reddit or instagram"
// @Param input body credentialsRequest true "Credential key-value pairs"
// @Success 200 {string} string "Saved"
// @Router /api/admin/social-marketing/platforms/{platform} [put]
func (h *SocialHandler) UpsertCredentials(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if !validPlatform(platform) {
		helpers.Error(w, http.StatusBadRequest, "Unknown platform")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.platforms.UpsertCredentials(r.Context(), platform, req.Credentials, req.IsActive); err != nil {
		logger.Log.Error("credential save failed", zap.Error(err), zap.String("platform", platform))
		helpers.Error(w, http.StatusInternalServerError, "Failed to save credentials")
		return
	}

	// Cached adapters were built with the old credentials.
	h.manager.Invalidate(platform)

	logger.Log.Info("credentials saved", zap.String("platform", platform), zap.Bool("active", req.IsActive))
	helpers.JSON(w, http.StatusOK, "Saved")
}

// TestCredentials godoc
// @Summary Validate credentials against the live platform API (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param platform path string true "facebook, twitter, reddit or instagram"
// @Param input body credentialsRequest true "Credential key-value pairs"
// @Success 200 {object} map[string]bool
// @Router /api/admin/social-marketing/platforms/{platform}/test [post]
func (h *SocialHandler) TestCredentials(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if !validPlatform(platform) {
		helpers.Error(w, http.StatusBadRequest, "Unknown platform")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ok, err := h.manager.TestCredentials(r.Context(), platform, req.Credentials)
	if err != nil {
		logger.Log.Warn("credential test failed", zap.Error(err), zap.String("platform", platform))
		helpers.JSON(w, http.StatusOK, map[string]interface{}{"valid": false, "error": err.Error()})
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]bool{"valid": ok})
}

// SetPlatformActive godoc
// @Summary Enable or disable posting to a platform (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Param platform path string true "Platform name"
// @Param active query bool true "New state"
// @Success 200 {string} string "OK"
// @Router /api/admin/social-marketing/platforms/{platform}/active [post]
func (h *SocialHandler) SetPlatformActive(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	active := r.URL.Query().Get("active") == "true"
	if err := h.platforms.SetActive(r.Context(), platform, active); err != nil {
		logger.Log.Error("platform state change failed", zap.Error(err), zap.String("platform", platform))
		helpers.Error(w, http.StatusInternalServerError, "Failed to change state")
		return
	}

	// Drop the cached adapter so the manager re-reads is_active next use.
	h.manager.Invalidate(platform)

	helpers.JSON(w, http.StatusOK, "OK")
}

type scheduleRequest struct {
	Slots []*models.ScheduleSlot `json:"slots"`
}

// GetSchedule godoc
// @Summary Weekly posting slots for a platform (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Param platform path string true "Platform name"
// @Success 200 {array} models.ScheduleSlot
// @Router /api/admin/social-marketing/schedule/{platform} [get]
func (h *SocialHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	slots, err := h.platforms.ScheduleForPlatform(r.Context(), platform)
	if err != nil {
		logger.Log.Error("schedule read failed", zap.Error(err), zap.String("platform", platform))
		helpers.Error(w, http.StatusInternalServerError, "Failed to read schedule")
		return
	}

	helpers.JSON(w, http.StatusOK, slots)
}

// PutSchedule godoc
// @Summary Replace the weekly posting slots for a platform (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Accept json
// @Param platform path string true "Platform name"
// @Param input body scheduleRequest true "Full slot list"
// @Success 200 {string} string "Saved"
// @Router /api/admin/social-marketing/schedule/{platform} [put]
func (h *SocialHandler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	platform := mux.Vars(r)["platform"]
	if !validPlatform(platform) {
		helpers.Error(w, http.StatusBadRequest, "Unknown platform")
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	for _, s := range req.Slots {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 || s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
			helpers.Error(w, http.StatusBadRequest, "Slot out of range")
			return
		}
	}

	if err := h.platforms.ReplaceSchedule(r.Context(), platform, req.Slots); err != nil {
		logger.Log.Error("schedule save failed", zap.Error(err), zap.String("platform", platform))
		helpers.Error(w, http.StatusInternalServerError, "Failed to save schedule")
		return
	}

	logger.Log.Info("schedule replaced", zap.String("platform", platform), zap.Int("slots", len(req.Slots)))
	helpers.JSON(w, http.StatusOK, "Saved")
}

// SyncEngagement godoc
// @Summary Refresh likes, shares and comments for posted items (admin only)
// @Tags admin-social
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/admin/social-marketing/engagement/sync [post]
func (h *SocialHandler) SyncEngagement(w http.ResponseWriter, r *http.Request) {
	updated, err := h.syncer.Sync(r.Context())
	if err != nil {
		logger.Log.Error("engagement sync failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Engagement sync failed")
		return
	}

	logger.Log.Info("engagement synced", zap.Int("updated", updated))
	helpers.JSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func validPlatform(p string) bool {
	switch p {
	case models.PlatformFacebook, models.PlatformTwitter, models.PlatformReddit, models.PlatformInstagram:
		return true
	}
	return false
}
