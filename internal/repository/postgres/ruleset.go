package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type ruleSetRepo struct{ db execer }

func (r *ruleSetRepo) Create(ctx context.Context, rs *entity.RuleSet) error {
	if rs.ID == uuid.Nil {
		rs.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rule_sets (id, practice_id, version, saved, parent_version, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rs.ID, rs.PracticeID, rs.Version, rs.Saved, rs.ParentVersion, rs.Description, rs.CreatedAt)
	if err != nil {
		return fmt.Errorf("create rule set: %w", err)
	}
	return nil
}

func (r *ruleSetRepo) scan(row *sql.Row) (*entity.RuleSet, error) {
	rs := &entity.RuleSet{}
	err := row.Scan(&rs.ID, &rs.PracticeID, &rs.Version, &rs.Saved, &rs.ParentVersion, &rs.Description, &rs.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan rule set: %w", err)
	}
	return rs, nil
}

const ruleSetColumns = `id, practice_id, version, saved, parent_version, description, created_at`

func (r *ruleSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleSet, error) {
	rs, err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+ruleSetColumns+` FROM rule_sets WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, &repository.NotFoundError{ResourceType: "RuleSet", ResourceID: id.String()}
	}
	return rs, nil
}

func (r *ruleSetRepo) GetDraft(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT `+ruleSetColumns+` FROM rule_sets
		WHERE practice_id = $1 AND saved = false LIMIT 1`, practiceID))
}

func (r *ruleSetRepo) Update(ctx context.Context, rs *entity.RuleSet) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE rule_sets SET saved = $2, description = $3 WHERE id = $1`,
		rs.ID, rs.Saved, rs.Description)
	if err != nil {
		return fmt.Errorf("update rule set: %w", err)
	}
	return requireRowsAffected(result, "RuleSet", rs.ID.String())
}

func (r *ruleSetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rule_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule set: %w", err)
	}
	return requireRowsAffected(result, "RuleSet", id.String())
}

func (r *ruleSetRepo) queryList(ctx context.Context, query string, args ...interface{}) ([]*entity.RuleSet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rule sets: %w", err)
	}
	defer rows.Close()

	var result []*entity.RuleSet
	for rows.Next() {
		rs := &entity.RuleSet{}
		if err := rows.Scan(&rs.ID, &rs.PracticeID, &rs.Version, &rs.Saved, &rs.ParentVersion, &rs.Description, &rs.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule set: %w", err)
		}
		result = append(result, rs)
	}
	return result, rows.Err()
}

func (r *ruleSetRepo) ListByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	return r.queryList(ctx, `SELECT `+ruleSetColumns+` FROM rule_sets WHERE practice_id = $1 ORDER BY version`, practiceID)
}

func (r *ruleSetRepo) ListSavedByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	return r.queryList(ctx, `SELECT `+ruleSetColumns+` FROM rule_sets WHERE practice_id = $1 AND saved = true ORDER BY version`, practiceID)
}
