package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

// TrackingService produces the click-tracked link substituted for the real
// article URL in social posts. A placeholder social post row is created
// first so the shortener can key on a stable post id; any failure falls back
// to a plain UTM-tagged URL.
type TrackingService struct {
	posts      repository.SocialPostRepo
	siteURL    string
	endpoint   string
	httpClient *http.Client
}

func NewTrackingService(posts repository.SocialPostRepo, siteURL, endpoint string) *TrackingService {
	return &TrackingService{
		posts:      posts,
		siteURL:    siteURL,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TrackingService) ArticleURL(articleID int64) string {
	return fmt.Sprintf("%s/articles/%d", t.siteURL, articleID)
}

// TrackingURL never fails: the UTM fallback covers every error path.
func (t *TrackingService) TrackingURL(ctx context.Context, article *models.Article, platform string) string {
	articleURL := t.ArticleURL(article.ID)

	postID, err := t.posts.CreatePlaceholder(ctx, article.ID, platform)
	if err != nil {
		logger.Log.Warn("tracking: placeholder create failed, using UTM fallback",
			zap.Int64("article_id", article.ID), zap.Error(err))
		return utmFallback(articleURL, platform)
	}

	if t.endpoint == "" {
		return utmFallback(articleURL, platform)
	}

	short, err := t.requestShortURL(ctx, articleURL, postID, platform)
	if err != nil {
		logger.Log.Warn("tracking: shortener failed, using UTM fallback",
			zap.Int64("post_id", postID), zap.Error(err))
		return utmFallback(articleURL, platform)
	}

	if err := t.posts.SetShortURL(ctx, postID, short); err != nil {
		logger.Log.Warn("tracking: failed to store short url", zap.Error(err))
	}
	return short
}

func (t *TrackingService) requestShortURL(ctx context.Context, articleURL string, postID int64, platform string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"url":      articleURL,
		"post_id":  postID,
		"platform": platform,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("shortener returned %s", resp.Status)
	}

	var out struct {
		ShortURL string `json:"short_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ShortURL == "" {
		return "", fmt.Errorf("shortener returned empty short_url")
	}
	return out.ShortURL, nil
}

func utmFallback(articleURL, platform string) string {
	u, err := url.Parse(articleURL)
	if err != nil {
		return articleURL
	}
	qs := u.Query()
	qs.Set("utm_source", platform)
	qs.Set("utm_medium", "social")
	qs.Set("utm_campaign", "auto_post")
	u.RawQuery = qs.Encode()
	return u.String()
}
