package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/lib/pq"
)

type practitionerRepo struct{ db execer }

const practitionerColumns = `id, practice_id, rule_set_id, parent_id, name, tags`

func (r *practitionerRepo) Create(ctx context.Context, p *entity.Practitioner) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practitioners (id, practice_id, rule_set_id, parent_id, name, tags)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.PracticeID, p.RuleSetID, p.ParentID, p.Name, pq.Array(p.Tags))
	if err != nil {
		return fmt.Errorf("create practitioner: %w", err)
	}
	return nil
}

func scanPractitioner(row *sql.Row) (*entity.Practitioner, error) {
	p := &entity.Practitioner{}
	var tags pq.StringArray
	err := row.Scan(&p.ID, &p.PracticeID, &p.RuleSetID, &p.ParentID, &p.Name, &tags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan practitioner: %w", err)
	}
	p.Tags = []string(tags)
	return p, nil
}

func (r *practitionerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error) {
	p, err := scanPractitioner(r.db.QueryRowContext(ctx, `SELECT `+practitionerColumns+` FROM practitioners WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: id.String()}
	}
	return p, nil
}

func (r *practitionerRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Practitioner, error) {
	p, err := scanPractitioner(r.db.QueryRowContext(ctx, `SELECT `+practitionerColumns+` FROM practitioners WHERE rule_set_id = $1 AND name = $2`, ruleSetID, name))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: name}
	}
	return p, nil
}

func (r *practitionerRepo) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.Practitioner, error) {
	p, err := scanPractitioner(r.db.QueryRowContext(ctx, `SELECT `+practitionerColumns+` FROM practitioners WHERE rule_set_id = $1 AND parent_id = $2`, ruleSetID, parentID))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: parentID.String()}
	}
	return p, nil
}

func (r *practitionerRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Practitioner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+practitionerColumns+` FROM practitioners WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return nil, fmt.Errorf("query practitioners: %w", err)
	}
	defer rows.Close()

	var result []*entity.Practitioner
	for rows.Next() {
		p := &entity.Practitioner{}
		var tags pq.StringArray
		if err := rows.Scan(&p.ID, &p.PracticeID, &p.RuleSetID, &p.ParentID, &p.Name, &tags); err != nil {
			return nil, fmt.Errorf("scan practitioner: %w", err)
		}
		p.Tags = []string(tags)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *practitionerRepo) Update(ctx context.Context, p *entity.Practitioner) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE practitioners SET name = $2, tags = $3 WHERE id = $1`,
		p.ID, p.Name, pq.Array(p.Tags))
	if err != nil {
		return fmt.Errorf("update practitioner: %w", err)
	}
	return requireRowsAffected(result, "Practitioner", p.ID.String())
}

func (r *practitionerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM practitioners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete practitioner: %w", err)
	}
	return requireRowsAffected(result, "Practitioner", id.String())
}

func (r *practitionerRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM practitioners WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return fmt.Errorf("delete practitioners by rule set: %w", err)
	}
	return nil
}
