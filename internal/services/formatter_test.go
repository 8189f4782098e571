package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"menshub/internal/models"
)

func formatterArticle() *models.Article {
	return &models.Article{
		ID:            7,
		Title:         "The Complete Guide to Building Muscle After 40",
		Excerpt:       "Everything you need to know about training smart as you age.",
		Tags:          []string{"fitness", "strength training", "over 40"},
		FeaturedImage: "https://img.example.com/muscle.jpg",
	}
}

func TestFormatTwitterFitsBudget(t *testing.T) {
	a := formatterArticle()
	a.Title = strings.Repeat("Very long headline that keeps going ", 12)

	content := FormatForPlatform(a, models.PlatformTwitter, "https://mh.example/a/7")

	// A t.co link costs 23 characters regardless of its real length.
	effective := utf8.RuneCountInString(content.Text) - len("https://mh.example/a/7") + twitterLinkChars
	if effective > twitterMaxChars {
		t.Errorf("tweet exceeds 280 effective chars: %d", effective)
	}
	if !strings.Contains(content.Text, "https://mh.example/a/7") {
		t.Error("tweet must carry the link")
	}
}

func TestFormatTwitterHashtagCap(t *testing.T) {
	content := FormatForPlatform(formatterArticle(), models.PlatformTwitter, "https://mh.example/a/7")
	if n := strings.Count(content.Text, "#"); n > twitterMaxTags {
		t.Errorf("expected at most %d hashtags, got %d", twitterMaxTags, n)
	}
	if !strings.Contains(content.Text, "#StrengthTraining") {
		t.Errorf("expected CamelCase hashtag, got %q", content.Text)
	}
}

func TestFormatFacebookPhotoPostCarriesLinkInMessage(t *testing.T) {
	a := formatterArticle()
	content := FormatForPlatform(a, models.PlatformFacebook, "https://mh.example/a/7")
	if !strings.Contains(content.Text, "https://mh.example/a/7") {
		t.Error("photo post must embed the link in the message")
	}

	a.FeaturedImage = ""
	content = FormatForPlatform(a, models.PlatformFacebook, "https://mh.example/a/7")
	if strings.Contains(content.Text, "https://mh.example/a/7") {
		t.Error("link posts pass the URL separately, not in the message")
	}
	if content.LinkURL == "" {
		t.Error("link post must keep LinkURL")
	}
}

func TestFormatInstagramCaption(t *testing.T) {
	content := FormatForPlatform(formatterArticle(), models.PlatformInstagram, "https://mh.example/a/7")
	if !strings.Contains(content.Text, "Read more: https://mh.example/a/7") {
		t.Errorf("caption must spell out the link, got %q", content.Text)
	}
	if utf8.RuneCountInString(content.Text) > instagramMaxChars {
		t.Error("caption exceeds 2200 chars")
	}
}

func TestFormatRedditTitleOnly(t *testing.T) {
	content := FormatForPlatform(formatterArticle(), models.PlatformReddit, "https://mh.example/a/7")
	if content.Text != "The Complete Guide to Building Muscle After 40" {
		t.Errorf("reddit submissions use the bare title, got %q", content.Text)
	}
	if strings.Contains(content.Text, "#") {
		t.Error("no hashtags on reddit")
	}
	if content.LinkURL != "https://mh.example/a/7" {
		t.Error("link must ride in LinkURL")
	}
}

func TestTruncateWordBoundary(t *testing.T) {
	got := Truncate("the quick brown fox jumps over the lazy dog", 20)
	if utf8.RuneCountInString(got) > 20 {
		t.Errorf("truncated string too long: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if got2 := Truncate("short", 20); got2 != "short" {
		t.Errorf("short strings pass through, got %q", got2)
	}
}

func TestWordCountStripsMarkup(t *testing.T) {
	html := "<p>one <strong>two</strong> three</p><ul><li>four</li></ul>"
	if n := WordCount(html); n != 4 {
		t.Errorf("expected 4 words, got %d", n)
	}
}

func TestHashtag(t *testing.T) {
	cases := map[string]string{
		"fitness":           "#Fitness",
		"strength training": "#StrengthTraining",
		"overated!!":        "#Overated",
		"":                  "",
	}
	for in, want := range cases {
		if got := Hashtag(in); got != want {
			t.Errorf("Hashtag(%q): expected %q, got %q", in, want, got)
		}
	}
}
