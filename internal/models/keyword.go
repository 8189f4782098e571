package models

import "time"

const (
	KeywordKindInternal  = "internal"
	KeywordKindAffiliate = "affiliate"
)

type KeywordLink struct {
	ID            int64     `db:"id"              json:"id"`
	Keyword       string    `db:"keyword"         json:"keyword"`
	URL           string    `db:"url"             json:"url"`
	Kind          string    `db:"kind"            json:"kind"`
	MaxPerArticle int       `db:"max_per_article" json:"max_per_article"`
	IsActive      bool      `db:"is_active"       json:"is_active"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
}
