package socialapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"menshub/internal/models"

	"github.com/google/uuid"
)

// TwitterAPI signs requests with OAuth 1.0a (HMAC-SHA1). Media goes through
// the v1.1 upload endpoint before the v2 tweet is created with the returned
// media ids.
type TwitterAPI struct {
	consumerKey    string
	consumerSecret string
	accessToken    string
	accessSecret   string

	apiBaseURL    string
	uploadBaseURL string
	httpClient    *http.Client
	limiter       *rateWindow

	nonce func() string
	now   func() time.Time
}

func NewTwitterAPI(creds map[string]string) *TwitterAPI {
	return &TwitterAPI{
		consumerKey:    creds["api_key"],
		consumerSecret: creds["api_secret"],
		accessToken:    creds["access_token"],
		accessSecret:   creds["access_secret"],
		apiBaseURL:     "https://api.twitter.com",
		uploadBaseURL:  "https://upload.twitter.com",
		httpClient:     defaultHTTPClient(),
		limiter:        newRateWindow(50, 24*time.Hour),
		nonce:          func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
		now:            time.Now,
	}
}

func (t *TwitterAPI) Platform() string { return models.PlatformTwitter }

func (t *TwitterAPI) Post(ctx context.Context, content PostContent) PostResult {
	var mediaIDs []string
	if content.ImageURL != "" {
		mediaID, err := t.uploadMedia(ctx, content.ImageURL)
		if err != nil {
			return failure(err.Error())
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	body := map[string]any{"text": content.Text}
	if len(mediaIDs) > 0 {
		body["media"] = map[string]any{"media_ids": mediaIDs}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return failure(err.Error())
	}

	endpoint := t.apiBaseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	// JSON bodies stay out of the signature; only the oauth params are signed.
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodPost, endpoint, nil))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(err.Error())
	}
	if resp.StatusCode >= http.StatusBadRequest || out.Data.ID == "" {
		msg := out.Detail
		if msg == "" {
			msg = out.Title
		}
		if msg == "" {
			msg = resp.Status
		}
		return failure("twitter: " + msg)
	}

	t.limiter.record()
	return PostResult{
		Success: true,
		PostID:  out.Data.ID,
		PostURL: "https://twitter.com/i/web/status/" + out.Data.ID,
	}
}

// uploadMedia downloads the image and pushes it through the v1.1 endpoint.
func (t *TwitterAPI) uploadMedia(ctx context.Context, imageURL string) (string, error) {
	imgReq, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	imgResp, err := t.httpClient.Do(imgReq)
	if err != nil {
		return "", fmt.Errorf("twitter: fetch image: %w", err)
	}
	defer imgResp.Body.Close()
	if imgResp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("twitter: fetch image returned %s", imgResp.Status)
	}
	img, err := io.ReadAll(io.LimitReader(imgResp.Body, 5<<20))
	if err != nil {
		return "", err
	}

	form := url.Values{"media_data": {base64.StdEncoding.EncodeToString(img)}}
	endpoint := t.uploadBaseURL + "/1.1/media/upload.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodPost, endpoint, form))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest || out.MediaIDString == "" {
		return "", fmt.Errorf("twitter: media upload returned %s", resp.Status)
	}
	return out.MediaIDString, nil
}

func (t *TwitterAPI) DeletePost(ctx context.Context, postID string) PostResult {
	endpoint := t.apiBaseURL + "/2/tweets/" + postID
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return failure(err.Error())
	}
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodDelete, endpoint, nil))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return failure("twitter: delete returned " + resp.Status)
	}
	return PostResult{Success: true, PostID: postID}
}

func (t *TwitterAPI) GetEngagement(ctx context.Context, postID string) EngagementResult {
	endpoint := t.apiBaseURL + "/2/tweets/" + postID + "?tweet.fields=public_metrics"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodGet, endpoint, nil))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return EngagementResult{Error: "twitter: engagement returned " + resp.Status}
	}

	var out struct {
		Data struct {
			PublicMetrics struct {
				LikeCount    int `json:"like_count"`
				RetweetCount int `json:"retweet_count"`
				ReplyCount   int `json:"reply_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return EngagementResult{Error: err.Error()}
	}
	m := out.Data.PublicMetrics
	return EngagementResult{
		Success:    true,
		Engagement: Engagement{Likes: m.LikeCount, Shares: m.RetweetCount, Comments: m.ReplyCount},
	}
}

func (t *TwitterAPI) ValidateCredentials(ctx context.Context) bool {
	if t.consumerKey == "" || t.consumerSecret == "" || t.accessToken == "" || t.accessSecret == "" {
		return false
	}
	endpoint := t.apiBaseURL + "/2/users/me"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", t.authorizationHeader(http.MethodGet, endpoint, nil))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (t *TwitterAPI) RateLimitStatus() RateLimit { return t.limiter.status() }

// authorizationHeader builds the OAuth 1.0a header. bodyParams must hold the
// form-encoded body params when the request carries one, since those are
// part of the signature base string.
func (t *TwitterAPI) authorizationHeader(method, rawURL string, bodyParams url.Values) string {
	oauth := map[string]string{
		"oauth_consumer_key":     t.consumerKey,
		"oauth_nonce":            t.nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(t.now().Unix(), 10),
		"oauth_token":            t.accessToken,
		"oauth_version":          "1.0",
	}

	u, _ := url.Parse(rawURL)
	baseURL := u.Scheme + "://" + u.Host + u.Path

	params := map[string]string{}
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	for k, vs := range bodyParams {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	for k, v := range oauth {
		params[k] = v
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	paramString := strings.Join(pairs, "&")

	base := strings.Join([]string{
		strings.ToUpper(method),
		percentEncode(baseURL),
		percentEncode(paramString),
	}, "&")
	signingKey := percentEncode(t.consumerSecret) + "&" + percentEncode(t.accessSecret)

	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(base))
	oauth["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	headerKeys := make([]string, 0, len(oauth))
	for k := range oauth {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)

	headerPairs := make([]string, 0, len(headerKeys))
	for _, k := range headerKeys {
		headerPairs = append(headerPairs, percentEncode(k)+`="`+percentEncode(oauth[k])+`"`)
	}
	return "OAuth " + strings.Join(headerPairs, ", ")
}

// percentEncode implements RFC 3986 encoding as OAuth 1.0a requires it;
// url.QueryEscape uses '+' for spaces, which breaks the signature.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
