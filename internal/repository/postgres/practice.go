package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type practiceRepo struct{ db execer }

func (r *practiceRepo) Create(ctx context.Context, p *entity.Practice) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practices (id, name, current_active_rule_set_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.CurrentActiveRuleSetID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create practice: %w", err)
	}
	return nil
}

func (r *practiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practice, error) {
	p := &entity.Practice{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, current_active_rule_set_id, created_at, updated_at
		FROM practices WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CurrentActiveRuleSetID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Practice", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get practice: %w", err)
	}
	return p, nil
}

func (r *practiceRepo) Update(ctx context.Context, p *entity.Practice) error {
	p.UpdatedAt = entity.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE practices SET name = $2, current_active_rule_set_id = $3, updated_at = $4
		WHERE id = $1`, p.ID, p.Name, p.CurrentActiveRuleSetID, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update practice: %w", err)
	}
	return requireRowsAffected(result, "Practice", p.ID.String())
}

func (r *practiceRepo) SetActiveRuleSet(ctx context.Context, practiceID, ruleSetID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE practices SET current_active_rule_set_id = $2, updated_at = $3
		WHERE id = $1`, practiceID, ruleSetID, entity.Now())
	if err != nil {
		return fmt.Errorf("set active rule set: %w", err)
	}
	return requireRowsAffected(result, "Practice", practiceID.String())
}

func requireRowsAffected(result sql.Result, resourceType, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: resourceType, ResourceID: id}
	}
	return nil
}
