package socialapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menshub/internal/models"
)

// InstagramAPI publishes through the two-phase Graph container flow:
// create a media container, poll it until processed, then publish.
type InstagramAPI struct {
	userID      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	limiter     *rateWindow

	pollAttempts int
	pollInterval time.Duration
}

func NewInstagramAPI(creds map[string]string) *InstagramAPI {
	return &InstagramAPI{
		userID:       creds["ig_user_id"],
		accessToken:  creds["access_token"],
		baseURL:      "https://graph.facebook.com/v18.0",
		httpClient:   defaultHTTPClient(),
		limiter:      newRateWindow(25, 24*time.Hour),
		pollAttempts: 10,
		pollInterval: 2 * time.Second,
	}
}

func (ig *InstagramAPI) Platform() string { return models.PlatformInstagram }

func (ig *InstagramAPI) Post(ctx context.Context, content PostContent) PostResult {
	if content.ImageURL == "" {
		return failure("instagram: an image is required")
	}

	containerID, err := ig.createContainer(ctx, content)
	if err != nil {
		return failure(err.Error())
	}

	if err := ig.waitForContainer(ctx, containerID); err != nil {
		return failure(err.Error())
	}

	mediaID, err := ig.publish(ctx, containerID)
	if err != nil {
		return failure(err.Error())
	}

	ig.limiter.record()
	return PostResult{
		Success: true,
		PostID:  mediaID,
		PostURL: "https://www.instagram.com/p/" + mediaID,
	}
}

func (ig *InstagramAPI) createContainer(ctx context.Context, content PostContent) (string, error) {
	form := url.Values{
		"image_url":    {content.ImageURL},
		"caption":      {content.Text},
		"access_token": {ig.accessToken},
	}

	var out struct {
		ID    string `json:"id"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	endpoint := fmt.Sprintf("%s/%s/media", ig.baseURL, ig.userID)
	if err := ig.postForm(ctx, endpoint, form, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("instagram: container create failed: %s", out.Error.Message)
	}
	if out.ID == "" {
		return "", fmt.Errorf("instagram: container create returned no id")
	}
	return out.ID, nil
}

// waitForContainer polls status_code until FINISHED. Bounded: an explicit
// ERROR status or exhausting the attempts fails the post.
func (ig *InstagramAPI) waitForContainer(ctx context.Context, containerID string) error {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
		ig.baseURL, containerID, url.QueryEscape(ig.accessToken))

	for attempt := 0; attempt < ig.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ig.pollInterval):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := ig.httpClient.Do(req)
		if err != nil {
			return err
		}

		var out struct {
			StatusCode string `json:"status_code"`
		}
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return err
		}

		switch out.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("Media processing failed")
		}
	}

	return fmt.Errorf("Media processing timeout")
}

func (ig *InstagramAPI) publish(ctx context.Context, containerID string) (string, error) {
	form := url.Values{
		"creation_id":  {containerID},
		"access_token": {ig.accessToken},
	}

	var out struct {
		ID    string `json:"id"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	endpoint := fmt.Sprintf("%s/%s/media_publish", ig.baseURL, ig.userID)
	if err := ig.postForm(ctx, endpoint, form, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("instagram: publish failed: %s", out.Error.Message)
	}
	return out.ID, nil
}

func (ig *InstagramAPI) DeletePost(ctx context.Context, postID string) PostResult {
	// The content publishing API has no delete; posts are removed in-app.
	return failure("instagram: deleting posts is not supported by the API")
}

func (ig *InstagramAPI) GetEngagement(ctx context.Context, postID string) EngagementResult {
	endpoint := fmt.Sprintf("%s/%s?fields=like_count,comments_count&access_token=%s",
		ig.baseURL, postID, url.QueryEscape(ig.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	resp, err := ig.httpClient.Do(req)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return EngagementResult{Error: "instagram: engagement returned " + resp.Status}
	}

	var out struct {
		LikeCount     int `json:"like_count"`
		CommentsCount int `json:"comments_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return EngagementResult{Error: err.Error()}
	}
	return EngagementResult{
		Success:    true,
		Engagement: Engagement{Likes: out.LikeCount, Comments: out.CommentsCount},
	}
}

func (ig *InstagramAPI) ValidateCredentials(ctx context.Context) bool {
	if ig.userID == "" || ig.accessToken == "" {
		return false
	}
	endpoint := fmt.Sprintf("%s/%s?fields=id&access_token=%s", ig.baseURL, ig.userID, url.QueryEscape(ig.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := ig.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (ig *InstagramAPI) RateLimitStatus() RateLimit { return ig.limiter.status() }

func (ig *InstagramAPI) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ig.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
