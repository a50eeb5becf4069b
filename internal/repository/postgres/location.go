package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type locationRepo struct{ db execer }

const locationColumns = `id, practice_id, rule_set_id, parent_id, name`

func (r *locationRepo) Create(ctx context.Context, l *entity.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, practice_id, rule_set_id, parent_id, name)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.PracticeID, l.RuleSetID, l.ParentID, l.Name)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func scanLocation(row *sql.Row) (*entity.Location, error) {
	l := &entity.Location{}
	err := row.Scan(&l.ID, &l.PracticeID, &l.RuleSetID, &l.ParentID, &l.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return l, nil
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: id.String()}
	}
	return l, nil
}

func (r *locationRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE rule_set_id = $1 AND name = $2`, ruleSetID, name))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: name}
	}
	return l, nil
}

func (r *locationRepo) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE rule_set_id = $1 AND parent_id = $2`, ruleSetID, parentID))
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: parentID.String()}
	}
	return l, nil
}

func (r *locationRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var result []*entity.Location
	for rows.Next() {
		l := &entity.Location{}
		if err := rows.Scan(&l.ID, &l.PracticeID, &l.RuleSetID, &l.ParentID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (r *locationRepo) Update(ctx context.Context, l *entity.Location) error {
	result, err := r.db.ExecContext(ctx, `UPDATE locations SET name = $2 WHERE id = $1`, l.ID, l.Name)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return requireRowsAffected(result, "Location", l.ID.String())
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return requireRowsAffected(result, "Location", id.String())
}

func (r *locationRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return fmt.Errorf("delete locations by rule set: %w", err)
	}
	return nil
}
