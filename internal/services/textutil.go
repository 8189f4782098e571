package services

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML flattens markup to plain text, good enough for word counts and
// keyword checks. Not a sanitizer.
func StripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return strings.Join(strings.Fields(s), " ")
}

// WordCount counts words in the article body after stripping markup.
func WordCount(html string) int {
	text := StripHTML(html)
	if text == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// Truncate cuts s to max runes, backing up to a word boundary and appending
// an ellipsis when something was dropped.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max-1])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return cut + "…"
}

var hashtagCleanRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Hashtag turns a tag like "strength training" into "#StrengthTraining".
func Hashtag(tag string) string {
	parts := strings.Fields(strings.TrimSpace(tag))
	var b strings.Builder
	for _, p := range parts {
		p = hashtagCleanRe.ReplaceAllString(p, "")
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}
