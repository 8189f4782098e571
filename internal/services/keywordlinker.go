package services

import (
	"context"
	"strings"
	"unicode"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// KeywordLinker wraps keyword occurrences in article HTML with internal or
// affiliate anchors. Existing links and headings are never touched.
type KeywordLinker struct {
	keywords repository.KeywordRepo
	articles repository.ArticleRepo
}

func NewKeywordLinker(keywords repository.KeywordRepo, articles repository.ArticleRepo) *KeywordLinker {
	return &KeywordLinker{keywords: keywords, articles: articles}
}

// Preview returns the linked HTML and the number of links inserted without
// saving anything.
func (l *KeywordLinker) Preview(ctx context.Context, articleID int64) (string, int, error) {
	article, err := l.articles.GetByID(ctx, articleID)
	if err != nil {
		return "", 0, err
	}
	links, err := l.keywords.ListActive(ctx)
	if err != nil {
		return "", 0, err
	}
	return LinkKeywords(article.Content, links)
}

// Apply links the article in place and saves it.
func (l *KeywordLinker) Apply(ctx context.Context, articleID int64) (int, error) {
	article, err := l.articles.GetByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	links, err := l.keywords.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	linked, count, err := LinkKeywords(article.Content, links)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	article.Content = linked
	if err := l.articles.Update(ctx, article); err != nil {
		return 0, err
	}

	logger.Log.Info("keywords linked",
		zap.Int64("article_id", articleID), zap.Int("links", count))
	return count, nil
}

// skip elements whose text must never gain links
var skipTags = map[string]struct{}{
	"a": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"script": {}, "style": {}, "code": {}, "pre": {},
}

// LinkKeywords is the pure transformation: wrap up to max_per_article
// occurrences of each active keyword in an anchor.
func LinkKeywords(articleHTML string, links []*models.KeywordLink) (string, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return "", 0, err
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return articleHTML, 0, nil
	}

	total := 0
	for _, link := range links {
		budget := link.MaxPerArticle
		if budget <= 0 {
			budget = 1
		}
		n := linkInTree(body.Nodes[0], link, budget)
		total += n
	}

	out, err := body.Html()
	if err != nil {
		return "", 0, err
	}
	return out, total, nil
}

func linkInTree(root *html.Node, link *models.KeywordLink, budget int) int {
	if budget <= 0 {
		return 0
	}

	inserted := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if inserted >= budget {
			return
		}
		if n.Type == html.ElementNode {
			if _, skip := skipTags[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			inserted += linkInTextNode(n, link, budget-inserted)
			return
		}
		// Children may be re-linked during replacement; snapshot first.
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(root)
	return inserted
}

// linkInTextNode splits the text node around each matched keyword and
// splices in an anchor element, preserving the original casing.
func linkInTextNode(n *html.Node, link *models.KeywordLink, budget int) int {
	parent := n.Parent
	if parent == nil {
		return 0
	}

	text := n.Data
	lower := strings.ToLower(text)
	keyword := strings.ToLower(link.Keyword)
	if keyword == "" {
		return 0
	}

	inserted := 0
	offset := 0
	var nodes []*html.Node

	for inserted < budget {
		idx := indexWord(lower[offset:], keyword)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(keyword)

		if start > offset {
			nodes = append(nodes, &html.Node{Type: html.TextNode, Data: text[offset:start]})
		}
		nodes = append(nodes, anchorNode(link, text[start:end]))
		inserted++
		offset = end
	}

	if inserted == 0 {
		return 0
	}
	if offset < len(text) {
		nodes = append(nodes, &html.Node{Type: html.TextNode, Data: text[offset:]})
	}

	for _, nn := range nodes {
		parent.InsertBefore(nn, n)
	}
	parent.RemoveChild(n)
	return inserted
}

func anchorNode(link *models.KeywordLink, display string) *html.Node {
	attrs := []html.Attribute{{Key: "href", Val: link.URL}}
	if link.Kind == models.KeywordKindAffiliate {
		attrs = append(attrs,
			html.Attribute{Key: "rel", Val: "sponsored nofollow"},
			html.Attribute{Key: "target", Val: "_blank"},
		)
	}
	a := &html.Node{Type: html.ElementNode, Data: "a", Attr: attrs}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: display})
	return a
}

// indexWord finds keyword as a whole word (no letter/digit on either side).
func indexWord(haystack, keyword string) int {
	from := 0
	for {
		idx := strings.Index(haystack[from:], keyword)
		if idx < 0 {
			return -1
		}
		idx += from

		boundedLeft := idx == 0 || !isWordRune(rune(haystack[idx-1]))
		after := idx + len(keyword)
		boundedRight := after >= len(haystack) || !isWordRune(rune(haystack[after]))
		if boundedLeft && boundedRight {
			return idx
		}
		from = idx + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
