package socialapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstagram(baseURL string) *InstagramAPI {
	ig := NewInstagramAPI(map[string]string{
		"ig_user_id":   "17841400000000000",
		"access_token": "ig-token",
	})
	ig.baseURL = baseURL
	ig.pollInterval = time.Millisecond
	return ig
}

// graphServer mimics the container create / status poll / publish sequence.
// statuses are served one per poll request, in order.
func graphServer(t *testing.T, statuses []string) *httptest.Server {
	polls := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/17841400000000000/media":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "ig-token", r.PostFormValue("access_token"))
			assert.NotEmpty(t, r.PostFormValue("image_url"))
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/container-1":
			status := statuses[len(statuses)-1]
			if polls < len(statuses) {
				status = statuses[polls]
			}
			polls++
			json.NewEncoder(w).Encode(map[string]string{"status_code": status})
		case r.Method == http.MethodPost && r.URL.Path == "/17841400000000000/media_publish":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "container-1", r.PostFormValue("creation_id"))
			json.NewEncoder(w).Encode(map[string]string{"id": "media-9"})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
}

func TestInstagramPostPublishesAfterProcessing(t *testing.T) {
	srv := graphServer(t, []string{"IN_PROGRESS", "FINISHED"})
	defer srv.Close()

	ig := newTestInstagram(srv.URL)
	res := ig.Post(context.Background(), PostContent{
		Text:     "New workout guide",
		ImageURL: "https://cdn.example.com/img.jpg",
	})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "media-9", res.PostID)
	assert.Equal(t, "https://www.instagram.com/p/media-9", res.PostURL)
	assert.Equal(t, 24, ig.RateLimitStatus().Remaining)
}

func TestInstagramPostRequiresImage(t *testing.T) {
	ig := newTestInstagram("http://127.0.0.1:0")
	res := ig.Post(context.Background(), PostContent{Text: "no image"})

	require.False(t, res.Success)
	assert.Contains(t, res.Error, "image is required")
}

func TestInstagramPostTimesOutOnStuckContainer(t *testing.T) {
	srv := graphServer(t, []string{"IN_PROGRESS"})
	defer srv.Close()

	ig := newTestInstagram(srv.URL)
	ig.pollAttempts = 3
	res := ig.Post(context.Background(), PostContent{
		Text:     "stuck",
		ImageURL: "https://cdn.example.com/img.jpg",
	})

	require.False(t, res.Success)
	assert.Equal(t, "Media processing timeout", res.Error)
}

func TestInstagramPostFailsOnContainerError(t *testing.T) {
	srv := graphServer(t, []string{"ERROR"})
	defer srv.Close()

	ig := newTestInstagram(srv.URL)
	res := ig.Post(context.Background(), PostContent{
		Text:     "bad media",
		ImageURL: "https://cdn.example.com/img.jpg",
	})

	require.False(t, res.Success)
	assert.Equal(t, "Media processing failed", res.Error)
}

func TestInstagramGetEngagement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int{"like_count": 12, "comments_count": 4})
	}))
	defer srv.Close()

	ig := newTestInstagram(srv.URL)
	res := ig.GetEngagement(context.Background(), "media-9")

	require.True(t, res.Success)
	assert.Equal(t, 12, res.Engagement.Likes)
	assert.Equal(t, 4, res.Engagement.Comments)
}

func TestInstagramValidateCredentialsNeedsBothFields(t *testing.T) {
	ig := NewInstagramAPI(map[string]string{"access_token": "only-token"})
	assert.False(t, ig.ValidateCredentials(context.Background()))
}
