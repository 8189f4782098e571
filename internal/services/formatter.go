package services

import (
	"strings"

	"menshub/internal/models"
	"menshub/internal/socialapi"
)

// Per-platform formatting constraints.
const (
	twitterMaxChars   = 280
	twitterLinkChars  = 23 // every link counts as a t.co URL
	twitterMaxTags    = 3
	facebookMaxTags   = 2
	instagramMaxChars = 2200
	instagramMaxTags  = 5
	redditMaxTitle    = 300
)

// FormatForPlatform maps an article to platform-appropriate text, hashtags
// and link. Pure function; the adapter enforces media requirements.
func FormatForPlatform(a *models.Article, platform, link string) socialapi.PostContent {
	switch platform {
	case models.PlatformTwitter:
		return formatTwitter(a, link)
	case models.PlatformFacebook:
		return formatFacebook(a, link)
	case models.PlatformInstagram:
		return formatInstagram(a, link)
	case models.PlatformReddit:
		return formatReddit(a, link)
	default:
		return socialapi.PostContent{Text: a.Title, LinkURL: link, ImageURL: a.FeaturedImage}
	}
}

func formatTwitter(a *models.Article, link string) socialapi.PostContent {
	tags := hashtags(a.Tags, twitterMaxTags)
	tagText := strings.Join(tags, " ")

	// Budget: text + space + link(23) + space + tags.
	budget := twitterMaxChars - twitterLinkChars - 1
	if tagText != "" {
		budget -= len(tagText) + 1
	}

	text := Truncate(a.Title, budget)
	parts := []string{text, link}
	if tagText != "" {
		parts = append(parts, tagText)
	}

	return socialapi.PostContent{
		Text:     strings.Join(parts, " "),
		LinkURL:  link,
		ImageURL: a.FeaturedImage,
	}
}

func formatFacebook(a *models.Article, link string) socialapi.PostContent {
	var b strings.Builder
	b.WriteString(a.Title)
	if a.Excerpt != "" {
		b.WriteString("\n\n")
		b.WriteString(a.Excerpt)
	}
	if tags := hashtags(a.Tags, facebookMaxTags); len(tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}
	if a.FeaturedImage != "" {
		// Photo posts carry no separate link field; ride it in the message.
		b.WriteString("\n\n")
		b.WriteString(link)
	}

	return socialapi.PostContent{
		Text:     b.String(),
		LinkURL:  link,
		ImageURL: a.FeaturedImage,
	}
}

func formatInstagram(a *models.Article, link string) socialapi.PostContent {
	var b strings.Builder
	b.WriteString(a.Title)
	if a.Excerpt != "" {
		b.WriteString("\n\n")
		b.WriteString(a.Excerpt)
	}
	// Captions have no clickable links.
	b.WriteString("\n\nRead more: ")
	b.WriteString(link)
	if tags := hashtags(a.Tags, instagramMaxTags); len(tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}

	return socialapi.PostContent{
		Text:     Truncate(b.String(), instagramMaxChars),
		LinkURL:  link,
		ImageURL: a.FeaturedImage,
	}
}

func formatReddit(a *models.Article, link string) socialapi.PostContent {
	// Link submissions: text is the title, no hashtags.
	return socialapi.PostContent{
		Text:    Truncate(a.Title, redditMaxTitle),
		LinkURL: link,
	}
}

func hashtags(tags []string, max int) []string {
	out := make([]string, 0, max)
	for _, t := range tags {
		if h := Hashtag(t); h != "" {
			out = append(out, h)
		}
		if len(out) == max {
			break
		}
	}
	return out
}
