package services

import (
	"context"
	"testing"

	"menshub/internal/models"
)

func fitnessArticle() *models.Article {
	return &models.Article{
		ID:            1,
		Title:         "10 Dumbbell Workouts That Actually Work",
		Excerpt:       "Build strength at home",
		Content:       "<p>Grab a pair of dumbbells and follow this protein friendly plan.</p>",
		Category:      "fitness",
		FeaturedImage: "https://img.example.com/d.jpg",
		Status:        models.ArticleStatusPublished,
	}
}

func TestRuleMatchesCategory(t *testing.T) {
	a := fitnessArticle()

	rule := &models.AutomationRule{
		Conditions: models.RuleConditions{Categories: []string{"Fitness", "nutrition"}},
	}
	if !RuleMatches(rule, a) {
		t.Error("expected case-insensitive category match")
	}

	rule.Conditions.Categories = []string{"style"}
	if RuleMatches(rule, a) {
		t.Error("expected category mismatch to reject")
	}
}

func TestRuleMatchesKeywords(t *testing.T) {
	a := fitnessArticle()

	rule := &models.AutomationRule{
		Conditions: models.RuleConditions{Keywords: []string{"protein"}},
	}
	if !RuleMatches(rule, a) {
		t.Error("expected keyword found inside HTML body")
	}

	rule.Conditions.Keywords = []string{"crypto", "stocks"}
	if RuleMatches(rule, a) {
		t.Error("expected no keyword match")
	}
}

func TestRuleMatchesWordCountAndImage(t *testing.T) {
	a := fitnessArticle()

	rule := &models.AutomationRule{
		Conditions: models.RuleConditions{MinWordCount: 500},
	}
	if RuleMatches(rule, a) {
		t.Error("short article must not satisfy min_word_count=500")
	}

	rule.Conditions = models.RuleConditions{RequiresImage: true}
	if !RuleMatches(rule, a) {
		t.Error("article with featured image must pass requires_image")
	}

	a.FeaturedImage = ""
	if RuleMatches(rule, a) {
		t.Error("article without image must fail requires_image")
	}
}

func TestRuleMatchesEmptyConditions(t *testing.T) {
	rule := &models.AutomationRule{}
	if !RuleMatches(rule, fitnessArticle()) {
		t.Error("rule with no conditions must match everything")
	}
}

func TestTestArticleUnionsPlatforms(t *testing.T) {
	rules := &mockRuleRepo{rules: []*models.AutomationRule{
		{ID: 1, Name: "fitness to fb+tw", IsActive: true, Priority: 10,
			Conditions: models.RuleConditions{Categories: []string{"fitness"}},
			Platforms:  []string{models.PlatformFacebook, models.PlatformTwitter}},
		{ID: 2, Name: "everything to twitter", IsActive: true, Priority: 5,
			Platforms: []string{models.PlatformTwitter, models.PlatformReddit}},
		{ID: 3, Name: "style only", IsActive: true,
			Conditions: models.RuleConditions{Categories: []string{"style"}},
			Platforms:  []string{models.PlatformInstagram}},
	}}

	svc := NewAutomationService(rules)
	match, err := svc.TestArticle(context.Background(), fitnessArticle())
	if err != nil {
		t.Fatalf("TestArticle: %v", err)
	}

	if len(match.Rules) != 2 {
		t.Fatalf("expected 2 matching rules, got %d", len(match.Rules))
	}
	want := []string{models.PlatformFacebook, models.PlatformTwitter, models.PlatformReddit}
	if len(match.Platforms) != len(want) {
		t.Fatalf("expected platforms %v, got %v", want, match.Platforms)
	}
	for i, p := range want {
		if match.Platforms[i] != p {
			t.Errorf("platform[%d]: expected %s, got %s", i, p, match.Platforms[i])
		}
	}
}

func TestTestArticleSkipsInactiveRules(t *testing.T) {
	rules := &mockRuleRepo{rules: []*models.AutomationRule{
		{ID: 1, Name: "disabled", IsActive: false, Platforms: []string{models.PlatformTwitter}},
	}}

	svc := NewAutomationService(rules)
	match, err := svc.TestArticle(context.Background(), fitnessArticle())
	if err != nil {
		t.Fatalf("TestArticle: %v", err)
	}
	if len(match.Platforms) != 0 {
		t.Errorf("inactive rules must not contribute platforms, got %v", match.Platforms)
	}
}
