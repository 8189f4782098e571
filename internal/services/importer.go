package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Importer pulls third-party content into draft articles. RSS sources go
// through gofeed; scrape sources fetch the page and extract with the
// source's CSS selectors. Draft dedup is keyed on the source URL.
type Importer struct {
	sources    repository.ImportSourceRepo
	articles   repository.ArticleRepo
	feedParser *gofeed.Parser
	httpClient *http.Client
}

func NewImporter(sources repository.ImportSourceRepo, articles repository.ArticleRepo) *Importer {
	return &Importer{
		sources:    sources,
		articles:   articles,
		feedParser: gofeed.NewParser(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RunAll runs every active source, collecting per-source reports. A failing
// source does not abort the run.
func (im *Importer) RunAll(ctx context.Context) ([]*models.ImportReport, error) {
	sources, err := im.sources.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*models.ImportReport, 0, len(sources))
	for _, src := range sources {
		report := im.runSource(ctx, src)
		reports = append(reports, report)
	}
	return reports, nil
}

// RunSource runs one source by id regardless of its active flag.
func (im *Importer) RunSource(ctx context.Context, id int64) (*models.ImportReport, error) {
	src, err := im.sources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return im.runSource(ctx, src), nil
}

func (im *Importer) runSource(ctx context.Context, src *models.ImportSource) *models.ImportReport {
	report := &models.ImportReport{SourceID: src.ID, Source: src.Name}

	var err error
	switch src.Kind {
	case models.ImportKindRSS:
		err = im.importRSS(ctx, src, report)
	case models.ImportKindScrape:
		err = im.importScrape(ctx, src, report)
	default:
		err = fmt.Errorf("unknown import kind %q", src.Kind)
	}

	if err != nil {
		report.Error = err.Error()
		logger.Log.Error("import source failed",
			zap.String("source", src.Name), zap.Error(err))
		return report
	}

	if terr := im.sources.TouchLastRun(ctx, src.ID); terr != nil {
		logger.Log.Warn("failed to update source last_run_at", zap.Error(terr))
	}

	logger.Log.Info("import source finished",
		zap.String("source", src.Name),
		zap.Int("fetched", report.Fetched),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
	)
	return report
}

func (im *Importer) importRSS(ctx context.Context, src *models.ImportSource, report *models.ImportReport) error {
	feed, err := im.feedParser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return fmt.Errorf("parse feed: %w", err)
	}

	for _, item := range feed.Items {
		report.Fetched++

		if item.Link == "" {
			report.Skipped++
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		image := ""
		if item.Image != nil {
			image = item.Image.URL
		}

		created, err := im.createDraft(ctx, src, item.Title, item.Description, content, image, item.Link)
		if err != nil {
			return err
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}
	return nil
}

func (im *Importer) importScrape(ctx context.Context, src *models.ImportSource, report *models.ImportReport) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return err
	}
	resp, err := im.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("fetch page: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}

	report.Fetched++

	title := firstText(doc, src.TitleSelector, "h1")
	if title == "" {
		return fmt.Errorf("no title found with selector %q", src.TitleSelector)
	}

	bodySel := src.BodySelector
	if bodySel == "" {
		bodySel = "article"
	}
	body, err := doc.Find(bodySel).First().Html()
	if err != nil || body == "" {
		return fmt.Errorf("no body found with selector %q", bodySel)
	}

	image := ""
	if src.ImageSelector != "" {
		image, _ = doc.Find(src.ImageSelector).First().Attr("src")
	}

	excerpt := Truncate(StripHTML(body), 200)
	created, err := im.createDraft(ctx, src, title, excerpt, body, image, src.URL)
	if err != nil {
		return err
	}
	if created {
		report.Created++
	} else {
		report.Skipped++
	}
	return nil
}

func (im *Importer) createDraft(ctx context.Context, src *models.ImportSource, title, excerpt, content, image, sourceURL string) (bool, error) {
	exists, err := im.articles.ExistsBySourceURL(ctx, sourceURL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = im.articles.Create(ctx, &models.Article{
		Title:         title,
		Excerpt:       Truncate(StripHTML(excerpt), 300),
		Content:       content,
		Category:      src.Category,
		Tags:          []string{"imported"},
		FeaturedImage: image,
		Status:        models.ArticleStatusDraft,
		SourceURL:     sourceURL,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func firstText(doc *goquery.Document, selector, fallback string) string {
	if selector == "" {
		selector = fallback
	}
	return StripHTML(doc.Find(selector).First().Text())
}
