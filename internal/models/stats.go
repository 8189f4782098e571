package models

// ContentStats backs the admin dashboard.
type ContentStats struct {
	TotalArticles     int `json:"total_articles"`
	DraftArticles     int `json:"draft_articles"`
	PublishedArticles int `json:"published_articles"`

	ActiveAds     int   `json:"active_ads"`
	TotalAdClicks int64 `json:"total_ad_clicks"`
	ImportSources int   `json:"import_sources"`
	KeywordLinks  int   `json:"keyword_links"`

	QueuePending int `json:"queue_pending"`
	QueueFailed  int `json:"queue_failed"`
	PostsPosted  int `json:"posts_posted"`
	PostsFailed  int `json:"posts_failed"`
}
