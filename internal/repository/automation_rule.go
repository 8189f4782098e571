package repository

import (
	"context"
	"encoding/json"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AutomationRuleRepo interface {
	Create(ctx context.Context, rule *models.AutomationRule) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.AutomationRule, error)
	List(ctx context.Context) ([]*models.AutomationRule, error)
	ListActive(ctx context.Context) ([]*models.AutomationRule, error)
	Update(ctx context.Context, rule *models.AutomationRule) error
	Delete(ctx context.Context, id int64) error
}

type automationRuleRepo struct{ db *pgxpool.Pool }

func NewAutomationRuleRepo(db *pgxpool.Pool) AutomationRuleRepo { return &automationRuleRepo{db: db} }

const ruleColumns = `id, name, rule_type, conditions, platforms, is_active, priority, created_at`

func scanRule(row interface{ Scan(...any) error }) (*models.AutomationRule, error) {
	var rule models.AutomationRule
	var condRaw, platformsRaw []byte
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.RuleType, &condRaw, &platformsRaw,
		&rule.IsActive, &rule.Priority, &rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(condRaw, &rule.Conditions)
	_ = json.Unmarshal(platformsRaw, &rule.Platforms)
	return &rule, nil
}

func (r *automationRuleRepo) Create(ctx context.Context, rule *models.AutomationRule) (int64, error) {
	condJSON, _ := json.Marshal(rule.Conditions)
	platformsJSON, _ := json.Marshal(rule.Platforms)

	const q = `
		INSERT INTO social_automation_rules (name, rule_type, conditions, platforms, is_active, priority)
		VALUES ($1,$2,$3::jsonb,$4::jsonb,$5,$6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q,
		rule.Name, rule.RuleType, condJSON, platformsJSON, rule.IsActive, rule.Priority,
	).Scan(&id)
	return id, err
}

func (r *automationRuleRepo) GetByID(ctx context.Context, id int64) (*models.AutomationRule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ruleColumns+` FROM social_automation_rules WHERE id = $1`, id)
	return scanRule(row)
}

func (r *automationRuleRepo) List(ctx context.Context) ([]*models.AutomationRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM social_automation_rules ORDER BY priority DESC, id`)
}

// ListActive returns active rules ordered by priority, highest first.
func (r *automationRuleRepo) ListActive(ctx context.Context) ([]*models.AutomationRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM social_automation_rules WHERE is_active = TRUE ORDER BY priority DESC, id`)
}

func (r *automationRuleRepo) list(ctx context.Context, q string) ([]*models.AutomationRule, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *automationRuleRepo) Update(ctx context.Context, rule *models.AutomationRule) error {
	condJSON, _ := json.Marshal(rule.Conditions)
	platformsJSON, _ := json.Marshal(rule.Platforms)

	const q = `
		UPDATE social_automation_rules
		SET name = $1, rule_type = $2, conditions = $3::jsonb, platforms = $4::jsonb, is_active = $5, priority = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, q,
		rule.Name, rule.RuleType, condJSON, platformsJSON, rule.IsActive, rule.Priority, rule.ID,
	)
	return err
}

func (r *automationRuleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM social_automation_rules WHERE id = $1`, id)
	return err
}
