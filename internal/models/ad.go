package models

import "time"

const (
	AdPlacementHeader    = "header"
	AdPlacementSidebar   = "sidebar"
	AdPlacementInArticle = "in_article"
	AdPlacementFooter    = "footer"
)

type Ad struct {
	ID          int64      `db:"id"           json:"id"`
	Name        string     `db:"name"         json:"name"`
	Placement   string     `db:"placement"    json:"placement"`
	HTMLSnippet string     `db:"html_snippet" json:"html_snippet"`
	TargetURL   string     `db:"target_url"   json:"target_url"`
	IsActive    bool       `db:"is_active"    json:"is_active"`
	StartsAt    *time.Time `db:"starts_at"    json:"starts_at,omitempty"`
	EndsAt      *time.Time `db:"ends_at"      json:"ends_at,omitempty"`
	Impressions int64      `db:"impressions"  json:"impressions"`
	Clicks      int64      `db:"clicks"       json:"clicks"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

type CreateAdRequest struct {
	Name        string     `json:"name"`
	Placement   string     `json:"placement"`
	HTMLSnippet string     `json:"html_snippet"`
	TargetURL   string     `json:"target_url"`
	IsActive    bool       `json:"is_active"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}
