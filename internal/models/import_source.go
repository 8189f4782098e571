package models

import "time"

const (
	ImportKindRSS    = "rss"
	ImportKindScrape = "scrape"
)

type ImportSource struct {
	ID            int64      `db:"id"             json:"id"`
	Name          string     `db:"name"           json:"name"`
	Kind          string     `db:"kind"           json:"kind"`
	URL           string     `db:"url"            json:"url"`
	Category      string     `db:"category"       json:"category"`
	IsActive      bool       `db:"is_active"      json:"is_active"`
	TitleSelector string     `db:"title_selector" json:"title_selector,omitempty"`
	BodySelector  string     `db:"body_selector"  json:"body_selector,omitempty"`
	ImageSelector string     `db:"image_selector" json:"image_selector,omitempty"`
	LastRunAt     *time.Time `db:"last_run_at"    json:"last_run_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
}

// ImportReport summarises one importer run.
type ImportReport struct {
	SourceID int64  `json:"source_id"`
	Source   string `json:"source"`
	Fetched  int    `json:"fetched"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}
