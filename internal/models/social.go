package models

import "time"

// Queue item lifecycle. An item is eligible for pickup only while
// status=pending and scheduled_for <= now.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusCompleted  = "completed"
	QueueStatusFailed     = "failed"
)

const (
	PostStatusPending = "pending"
	PostStatusPosted  = "posted"
	PostStatusFailed  = "failed"
)

const (
	RuleTypeCategory   = "category_based"
	RuleTypeKeyword    = "keyword_based"
	RuleTypeTime       = "time_based"
	RuleTypeEngagement = "engagement_based"
)

const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformReddit    = "reddit"
	PlatformInstagram = "instagram"
)

// RuleConditions is the typed form of the rule predicate. Zero fields are
// unset and do not constrain the match.
type RuleConditions struct {
	Categories        []string `json:"categories,omitempty"`
	Keywords          []string `json:"keywords,omitempty"`
	MinWordCount      int      `json:"min_word_count,omitempty"`
	RequiresImage     bool     `json:"requires_image,omitempty"`
	MinEngagement     int      `json:"min_engagement,omitempty"`
	TimeSinceLastPost int      `json:"time_since_last_post,omitempty"` // minutes
}

type AutomationRule struct {
	ID         int64          `db:"id"         json:"id"`
	Name       string         `db:"name"       json:"name"`
	RuleType   string         `db:"rule_type"  json:"rule_type"`
	Conditions RuleConditions `db:"-"          json:"conditions"`
	Platforms  []string       `db:"-"          json:"platforms"`
	IsActive   bool           `db:"is_active"  json:"is_active"`
	Priority   int            `db:"priority"   json:"priority"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

type QueueItem struct {
	ID           int64     `db:"id"            json:"id"`
	ArticleID    int64     `db:"article_id"    json:"article_id"`
	Platform     string    `db:"platform"      json:"platform"`
	Priority     int       `db:"priority"      json:"priority"`
	Status       string    `db:"status"        json:"status"`
	Attempts     int       `db:"attempts"      json:"attempts"`
	ScheduledFor time.Time `db:"scheduled_for" json:"scheduled_for"`
	ErrorMessage *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// SocialPost is upserted on the unique (article_id, platform) pair: at most
// one live post per article per platform.
type SocialPost struct {
	ID           int64      `db:"id"            json:"id"`
	ArticleID    int64      `db:"article_id"    json:"article_id"`
	Platform     string     `db:"platform"      json:"platform"`
	Content      string     `db:"content"       json:"content"`
	PostID       string     `db:"post_id"       json:"post_id,omitempty"`
	PostURL      string     `db:"post_url"      json:"post_url,omitempty"`
	ShortURL     string     `db:"short_url"     json:"short_url,omitempty"`
	Status       string     `db:"status"        json:"status"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	Likes        int        `db:"likes"         json:"likes"`
	Shares       int        `db:"shares"        json:"shares"`
	Comments     int        `db:"comments"      json:"comments"`
	PostedAt     *time.Time `db:"posted_at"     json:"posted_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
}

// PlatformCredentials holds the opaque per-platform secret bag. Written by
// the setup wizard, read at adapter-initialization time, never mutated by
// the pipeline itself.
type PlatformCredentials struct {
	ID          int64             `db:"id"           json:"id"`
	Platform    string            `db:"platform"     json:"platform"`
	Credentials map[string]string `db:"-"            json:"credentials"`
	IsActive    bool              `db:"is_active"    json:"is_active"`
	LastPostAt  *time.Time        `db:"last_post_at" json:"last_post_at,omitempty"`
	CreatedAt   time.Time         `db:"created_at"   json:"created_at"`
}

// ScheduleSlot is one entry in the per-platform weekly posting schedule.
type ScheduleSlot struct {
	ID        int64  `db:"id"          json:"id"`
	Platform  string `db:"platform"    json:"platform"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Hour      int    `db:"hour"        json:"hour"`
	Minute    int    `db:"minute"      json:"minute"`
}

// QueueStatusCounts reports queue depth by status.
type QueueStatusCounts struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
