package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// UnsplashImage is one candidate featured image.
type UnsplashImage struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumb_url"`
	Credit      string `json:"credit"`
	CreditLink  string `json:"credit_link"`
}

// UnsplashService searches Unsplash for featured-image candidates.
type UnsplashService struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

func NewUnsplashService(accessKey string) *UnsplashService {
	return &UnsplashService{
		accessKey:  accessKey,
		baseURL:    "https://api.unsplash.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *UnsplashService) Search(ctx context.Context, query string, perPage int) ([]UnsplashImage, error) {
	if s.accessKey == "" {
		return nil, fmt.Errorf("unsplash is not configured")
	}
	if perPage <= 0 || perPage > 30 {
		perPage = 10
	}

	endpoint := s.baseURL + "/search/photos?query=" + url.QueryEscape(query) +
		"&per_page=" + strconv.Itoa(perPage) + "&orientation=landscape"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unsplash returned %s", resp.Status)
	}

	var out struct {
		Results []struct {
			ID          string `json:"id"`
			Description string `json:"alt_description"`
			Urls        struct {
				Regular string `json:"regular"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
			User struct {
				Name  string `json:"name"`
				Links struct {
					HTML string `json:"html"`
				} `json:"links"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	images := make([]UnsplashImage, 0, len(out.Results))
	for _, r := range out.Results {
		images = append(images, UnsplashImage{
			ID:          r.ID,
			Description: r.Description,
			URL:         r.Urls.Regular,
			ThumbURL:    r.Urls.Thumb,
			Credit:      r.User.Name,
			CreditLink:  r.User.Links.HTML,
		})
	}
	return images, nil
}
