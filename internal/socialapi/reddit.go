package socialapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"menshub/internal/models"
)

const redditUserAgent = "menshub-autopost/1.0"

// RedditAPI exchanges a refresh token for a short-lived bearer token (cached
// until expiry) and submits links through the submit endpoint.
type RedditAPI struct {
	clientID     string
	clientSecret string
	refreshToken string
	subreddit    string

	tokenURL   string
	apiBaseURL string
	httpClient *http.Client
	limiter    *rateWindow
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewRedditAPI(creds map[string]string) *RedditAPI {
	return &RedditAPI{
		clientID:     creds["client_id"],
		clientSecret: creds["client_secret"],
		refreshToken: creds["refresh_token"],
		subreddit:    creds["subreddit"],
		tokenURL:     "https://www.reddit.com/api/v1/access_token",
		apiBaseURL:   "https://oauth.reddit.com",
		httpClient:   defaultHTTPClient(),
		limiter:      newRateWindow(60, 10*time.Minute),
		now:          time.Now,
	}
}

func (rd *RedditAPI) Platform() string { return models.PlatformReddit }

// token returns the cached bearer token, refreshing it only once expired.
func (rd *RedditAPI) token(ctx context.Context) (string, error) {
	rd.mu.Lock()
	defer rd.mu.Unlock()

	if rd.accessToken != "" && rd.now().Before(rd.tokenExpiry) {
		return rd.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {rd.refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rd.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(rd.clientID, rd.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := rd.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit: token exchange: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest || out.AccessToken == "" {
		if out.Error != "" {
			return "", fmt.Errorf("reddit: token exchange failed: %s", out.Error)
		}
		return "", fmt.Errorf("reddit: token exchange returned %s", resp.Status)
	}

	rd.accessToken = out.AccessToken
	// A minute of slack keeps a token from expiring mid-request.
	rd.tokenExpiry = rd.now().Add(time.Duration(out.ExpiresIn)*time.Second - time.Minute)
	return rd.accessToken, nil
}

func (rd *RedditAPI) Post(ctx context.Context, content PostContent) PostResult {
	token, err := rd.token(ctx)
	if err != nil {
		return failure(err.Error())
	}

	form := url.Values{
		"sr":       {rd.subreddit},
		"kind":     {"link"},
		"title":    {content.Text},
		"url":      {content.LinkURL},
		"api_type": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rd.apiBaseURL+"/api/submit", strings.NewReader(form.Encode()))
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := rd.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()

	// Submit responses wrap errors in a json.errors array even on HTTP 200.
	var out struct {
		JSON struct {
			Errors [][]any `json:"errors"`
			Data   struct {
				URL  string `json:"url"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(err.Error())
	}
	if len(out.JSON.Errors) > 0 {
		return failure("reddit: " + formatRedditErrors(out.JSON.Errors))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return failure("reddit: submit returned " + resp.Status)
	}

	rd.limiter.record()
	return PostResult{
		Success: true,
		PostID:  out.JSON.Data.Name,
		PostURL: out.JSON.Data.URL,
	}
}

func formatRedditErrors(errs [][]any) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		fields := make([]string, 0, len(e))
		for _, f := range e {
			fields = append(fields, fmt.Sprint(f))
		}
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, "; ")
}

func (rd *RedditAPI) DeletePost(ctx context.Context, postID string) PostResult {
	token, err := rd.token(ctx)
	if err != nil {
		return failure(err.Error())
	}

	form := url.Values{"id": {postID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rd.apiBaseURL+"/api/del", strings.NewReader(form.Encode()))
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := rd.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return failure("reddit: delete returned " + resp.Status)
	}
	return PostResult{Success: true, PostID: postID}
}

func (rd *RedditAPI) GetEngagement(ctx context.Context, postID string) EngagementResult {
	token, err := rd.token(ctx)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}

	endpoint := rd.apiBaseURL + "/api/info?id=" + url.QueryEscape(postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := rd.httpClient.Do(req)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return EngagementResult{Error: "reddit: info returned " + resp.Status}
	}

	var out struct {
		Data struct {
			Children []struct {
				Data struct {
					Score       int `json:"score"`
					NumComments int `json:"num_comments"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return EngagementResult{Error: err.Error()}
	}
	if len(out.Data.Children) == 0 {
		return EngagementResult{Error: "reddit: post not found"}
	}
	d := out.Data.Children[0].Data
	return EngagementResult{
		Success:    true,
		Engagement: Engagement{Likes: d.Score, Comments: d.NumComments},
	}
}

func (rd *RedditAPI) ValidateCredentials(ctx context.Context) bool {
	if rd.clientID == "" || rd.clientSecret == "" || rd.refreshToken == "" || rd.subreddit == "" {
		return false
	}
	_, err := rd.token(ctx)
	return err == nil
}

func (rd *RedditAPI) RateLimitStatus() RateLimit { return rd.limiter.status() }
