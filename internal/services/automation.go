package services

import (
	"context"
	"strings"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

// AutomationService evaluates stored automation rules against articles. The
// detector and the admin preview endpoint share the same matcher.
type AutomationService struct {
	rules repository.AutomationRuleRepo
}

func NewAutomationService(rules repository.AutomationRuleRepo) *AutomationService {
	return &AutomationService{rules: rules}
}

// RuleMatch is the outcome of evaluating all active rules for one article.
type RuleMatch struct {
	Rules     []*models.AutomationRule `json:"rules"`
	Platforms []string                 `json:"platforms"`
}

// TestArticle returns the matching rule set and the union of their target
// platforms, highest-priority rules first.
func (s *AutomationService) TestArticle(ctx context.Context, a *models.Article) (*RuleMatch, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		logger.Log.Error("failed to load automation rules", zap.Error(err))
		return nil, err
	}

	match := &RuleMatch{}
	seen := make(map[string]struct{})
	for _, rule := range rules {
		if !RuleMatches(rule, a) {
			continue
		}
		match.Rules = append(match.Rules, rule)
		for _, p := range rule.Platforms {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			match.Platforms = append(match.Platforms, p)
		}
	}

	logger.Log.Debug("article tested against automation rules",
		zap.Int64("article_id", a.ID),
		zap.Int("matched_rules", len(match.Rules)),
		zap.Strings("platforms", match.Platforms),
	)
	return match, nil
}

// RuleMatches reports whether every populated condition is satisfied.
// min_engagement and time_since_last_post are stored but not evaluated at
// detection time; a freshly published article has neither.
func RuleMatches(rule *models.AutomationRule, a *models.Article) bool {
	c := rule.Conditions

	if len(c.Categories) > 0 && !containsFold(c.Categories, a.Category) {
		return false
	}

	if len(c.Keywords) > 0 {
		haystack := strings.ToLower(a.Title + " " + a.Excerpt + " " + StripHTML(a.Content))
		found := false
		for _, kw := range c.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(haystack, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.MinWordCount > 0 && WordCount(a.Content) < c.MinWordCount {
		return false
	}

	if c.RequiresImage && a.FeaturedImage == "" {
		return false
	}

	return true
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
