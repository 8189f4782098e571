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

// FacebookAPI posts to a page through the Graph API using a long-lived page
// access token.
type FacebookAPI struct {
	pageID      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	limiter     *rateWindow
}

func NewFacebookAPI(creds map[string]string) *FacebookAPI {
	return &FacebookAPI{
		pageID:      creds["page_id"],
		accessToken: creds["access_token"],
		baseURL:     "https://graph.facebook.com/v18.0",
		httpClient:  defaultHTTPClient(),
		limiter:     newRateWindow(25, time.Hour),
	}
}

func (f *FacebookAPI) Platform() string { return models.PlatformFacebook }

func (f *FacebookAPI) Post(ctx context.Context, content PostContent) PostResult {
	message := content.Text
	form := url.Values{"access_token": {f.accessToken}}

	var endpoint string
	if content.ImageURL != "" {
		// Photo post: the link rides inside the message.
		endpoint = fmt.Sprintf("%s/%s/photos", f.baseURL, f.pageID)
		form.Set("url", content.ImageURL)
		form.Set("message", message)
	} else {
		endpoint = fmt.Sprintf("%s/%s/feed", f.baseURL, f.pageID)
		form.Set("message", message)
		if content.LinkURL != "" {
			form.Set("link", content.LinkURL)
		}
	}

	var out struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := f.postForm(ctx, endpoint, form, &out); err != nil {
		return failure(err.Error())
	}
	if out.Error != nil {
		return failure("facebook: " + out.Error.Message)
	}

	id := out.PostID
	if id == "" {
		id = out.ID
	}
	f.limiter.record()
	return PostResult{
		Success: true,
		PostID:  id,
		PostURL: "https://www.facebook.com/" + id,
	}
}

func (f *FacebookAPI) DeletePost(ctx context.Context, postID string) PostResult {
	endpoint := fmt.Sprintf("%s/%s?access_token=%s", f.baseURL, postID, url.QueryEscape(f.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return failure(err.Error())
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return failure("facebook: delete returned " + resp.Status)
	}
	return PostResult{Success: true, PostID: postID}
}

func (f *FacebookAPI) GetEngagement(ctx context.Context, postID string) EngagementResult {
	endpoint := fmt.Sprintf(
		"%s/%s?fields=likes.summary(true),shares,comments.summary(true)&access_token=%s",
		f.baseURL, postID, url.QueryEscape(f.accessToken),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return EngagementResult{Error: "facebook: engagement returned " + resp.Status}
	}

	var out struct {
		Likes struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Shares struct {
			Count int `json:"count"`
		} `json:"shares"`
		Comments struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return EngagementResult{Error: err.Error()}
	}
	return EngagementResult{
		Success: true,
		Engagement: Engagement{
			Likes:    out.Likes.Summary.TotalCount,
			Shares:   out.Shares.Count,
			Comments: out.Comments.Summary.TotalCount,
		},
	}
}

func (f *FacebookAPI) ValidateCredentials(ctx context.Context) bool {
	if f.pageID == "" || f.accessToken == "" {
		return false
	}
	endpoint := fmt.Sprintf("%s/%s?fields=id&access_token=%s", f.baseURL, f.pageID, url.QueryEscape(f.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (f *FacebookAPI) RateLimitStatus() RateLimit { return f.limiter.status() }

func (f *FacebookAPI) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
