package models

import "time"

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

type Article struct {
	ID            int64      `db:"id"             json:"id"`
	Title         string     `db:"title"          json:"title"`
	Excerpt       string     `db:"excerpt"        json:"excerpt"`
	Content       string     `db:"content"        json:"content"`
	Category      string     `db:"category"       json:"category"`
	Tags          []string   `db:"-"              json:"tags"`
	FeaturedImage string     `db:"featured_image" json:"featured_image,omitempty"`
	Status        string     `db:"status"         json:"status"`
	SourceURL     string     `db:"source_url"     json:"source_url,omitempty"`
	PublishedAt   *time.Time `db:"published_at"   json:"published_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
}

// swagger:model CreateArticleRequest
type CreateArticleRequest struct {
	Title         string   `json:"title"          example:"10 Dumbbell Workouts That Actually Work"`
	Excerpt       string   `json:"excerpt"        example:"Short teaser for previews"`
	Content       string   `json:"content"        example:"<p>Body HTML</p>"`
	Category      string   `json:"category"       example:"fitness"`
	Tags          []string `json:"tags"           example:"fitness,workouts"`
	FeaturedImage string   `json:"featured_image"`
	Publish       bool     `json:"publish"`
}

type UpdateArticleRequest struct {
	Title         *string   `json:"title,omitempty"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	FeaturedImage *string   `json:"featured_image,omitempty"`
}

// ArticleFilter narrows List queries; zero values mean "no filter".
type ArticleFilter struct {
	Status   string
	Category string
	Search   string
	Limit    int
	Offset   int
}

func (a *Article) IsPublished() bool { return a.Status == ArticleStatusPublished }

func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
