package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menshub/internal/models"
)

func TestTrackingURLUsesShortener(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["platform"] != "twitter" {
			t.Errorf("expected platform in payload, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"short_url": "https://mh.ly/abc"})
	}))
	defer server.Close()

	posts := newMockPostRepo()
	tracking := NewTrackingService(posts, "https://menshub.example.com", server.URL)

	link := tracking.TrackingURL(context.Background(), &models.Article{ID: 42}, models.PlatformTwitter)
	if link != "https://mh.ly/abc" {
		t.Fatalf("expected short link, got %q", link)
	}

	p, err := posts.GetByArticleAndPlatform(context.Background(), 42, models.PlatformTwitter)
	if err != nil {
		t.Fatalf("placeholder row missing: %v", err)
	}
	if p.ShortURL != "https://mh.ly/abc" {
		t.Errorf("short url must be stored on the placeholder, got %q", p.ShortURL)
	}
}

func TestTrackingURLFallsBackToUTM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	tracking := NewTrackingService(newMockPostRepo(), "https://menshub.example.com", server.URL)

	link := tracking.TrackingURL(context.Background(), &models.Article{ID: 42}, models.PlatformFacebook)
	if !strings.Contains(link, "/articles/42") {
		t.Errorf("fallback must point at the article, got %q", link)
	}
	for _, want := range []string{"utm_source=facebook", "utm_medium=social", "utm_campaign=auto_post"} {
		if !strings.Contains(link, want) {
			t.Errorf("fallback link missing %s: %q", want, link)
		}
	}
}

func TestTrackingURLNoEndpoint(t *testing.T) {
	tracking := NewTrackingService(newMockPostRepo(), "https://menshub.example.com", "")
	link := tracking.TrackingURL(context.Background(), &models.Article{ID: 7}, models.PlatformReddit)
	if !strings.Contains(link, "utm_source=reddit") {
		t.Errorf("expected UTM link without an endpoint, got %q", link)
	}
}
