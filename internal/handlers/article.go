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

type ArticleHandler struct {
	articleService *services.ArticleService
	keywordLinker  *services.KeywordLinker
}

func NewArticleHandler(articleService *services.ArticleService, keywordLinker *services.KeywordLinker) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, keywordLinker: keywordLinker}
}

// CreateArticle godoc
// @Summary Create an article (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateArticleRequest true "Article payload"
// @Success 201 {object} models.Article
// @Failure 400 {string} string "Bad request"
// @Router /api/admin/articles [post]
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("invalid JSON on article create", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" || req.Content == "" {
		helpers.Error(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	status := models.ArticleStatusDraft
	if req.Publish {
		status = models.ArticleStatusPublished
	}
	article := &models.Article{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Category:      req.Category,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
	}

	created, err := h.articleService.Create(r.Context(), article)
	if err != nil {
		logger.Log.Error("article create failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to create article")
		return
	}

	logger.Log.Info("article created", zap.Int64("article_id", created.ID), zap.String("status", created.Status))
	helpers.JSON(w, http.StatusCreated, created)
}

// ListArticles godoc
// @Summary List articles with optional filters (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "draft or published"
// @Param category query string false "Category slug"
// @Param search query string false "Substring match over title"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Article
// @Router /api/admin/articles [get]
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.ArticleFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	}

	articles, err := h.articleService.List(r.Context(), filter)
	if err != nil {
		logger.Log.Error("article list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}

	helpers.JSON(w, http.StatusOK, articles)
}

// ListPublished godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Param category query string false "Category slug"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Article
// @Router /articles [get]
func (h *ArticleHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.ArticleFilter{
		Status:   models.ArticleStatusPublished,
		Category: q.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	articles, err := h.articleService.List(r.Context(), filter)
	if err != nil {
		logger.Log.Error("published list failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}

	helpers.JSON(w, http.StatusOK, articles)
}

// GetArticle godoc
// @Summary Get an article by ID
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404 {string} string "Not found"
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	article, err := h.articleService.GetByID(r.Context(), id)
	if err != nil {
		logger.Log.Warn("article not found", zap.Int64("article_id", id))
		helpers.Error(w, http.StatusNotFound, "Article not found")
		return
	}

	helpers.JSON(w, http.StatusOK, article)
}

// UpdateArticle godoc
// @Summary Update an article (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Param id path int true "Article ID"
// @Param input body models.UpdateArticleRequest true "Fields to change"
// @Success 200 {object} models.Article
// @Router /api/admin/articles/{id} [patch]
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	var req models.UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("invalid JSON on article update", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	article, err := h.articleService.GetByID(r.Context(), id)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Article not found")
		return
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Excerpt != nil {
		article.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Tags != nil {
		article.Tags = *req.Tags
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = *req.FeaturedImage
	}

	if err := h.articleService.Update(r.Context(), article); err != nil {
		logger.Log.Error("article update failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to update article")
		return
	}

	logger.Log.Info("article updated", zap.Int64("article_id", id))
	helpers.JSON(w, http.StatusOK, article)
}

// PublishArticle godoc
// @Summary Publish an article (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Param id path int true "Article ID"
// @Success 200 {string} string "Published"
// @Router /api/admin/articles/{id}/publish [post]
func (h *ArticleHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.articleService.SetStatus(r.Context(), id, models.ArticleStatusPublished); err != nil {
		logger.Log.Error("publish failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to publish")
		return
	}

	logger.Log.Info("article published", zap.Int64("article_id", id))
	helpers.JSON(w, http.StatusOK, "Published")
}

// UnpublishArticle godoc
// @Summary Move an article back to draft (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Param id path int true "Article ID"
// @Success 200 {string} string "Unpublished"
// @Router /api/admin/articles/{id}/unpublish [post]
func (h *ArticleHandler) UnpublishArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.articleService.SetStatus(r.Context(), id, models.ArticleStatusDraft); err != nil {
		logger.Log.Error("unpublish failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to unpublish")
		return
	}

	helpers.JSON(w, http.StatusOK, "Unpublished")
}

// DeleteArticle godoc
// @Summary Delete an article (admin only)
// @Tags admin-articles
// @Security ApiKeyAuth
// @Param id path int true "Article ID"
// @Success 200 {string} string "Deleted"
// @Router /api/admin/articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err := h.articleService.Delete(r.Context(), id); err != nil {
		logger.Log.Error("article delete failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	logger.Log.Info("article deleted", zap.Int64("article_id", id))
	helpers.JSON(w, http.StatusOK, "Deleted")
}

// PreviewKeywordLinks godoc
// @Summary Preview keyword links for an article body (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/articles/{id}/keyword-links/preview [get]
func (h *ArticleHandler) PreviewKeywordLinks(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	linked, count, err := h.keywordLinker.Preview(r.Context(), id)
	if err != nil {
		logger.Log.Error("keyword preview failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to build preview")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{
		"content":       linked,
		"links_applied": count,
	})
}

// ApplyKeywordLinks godoc
// @Summary Insert keyword links into an article body (admin only)
// @Tags admin-keywords
// @Security ApiKeyAuth
// @Param id path int true "Article ID"
// @Success 200 {object} map[string]int
// @Router /api/admin/articles/{id}/keyword-links [post]
func (h *ArticleHandler) ApplyKeywordLinks(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	count, err := h.keywordLinker.Apply(r.Context(), id)
	if err != nil {
		logger.Log.Error("keyword apply failed", zap.Error(err), zap.Int64("article_id", id))
		helpers.Error(w, http.StatusInternalServerError, "Failed to apply links")
		return
	}

	logger.Log.Info("keyword links applied", zap.Int64("article_id", id), zap.Int("count", count))
	helpers.JSON(w, http.StatusOK, map[string]int{"links_applied": count})
}
