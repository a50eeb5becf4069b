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

type appointmentTypeRepo struct{ db execer }

const appointmentTypeColumns = `id, practice_id, rule_set_id, parent_id, name, duration_minutes, allowed_practitioner_ids`

func (r *appointmentTypeRepo) Create(ctx context.Context, a *entity.AppointmentType) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointment_types (id, practice_id, rule_set_id, parent_id, name, duration_minutes, allowed_practitioner_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.PracticeID, a.RuleSetID, a.ParentID, a.Name, a.DurationMinutes, uuidArray(a.AllowedPractitionerIDs))
	if err != nil {
		return fmt.Errorf("create appointment type: %w", err)
	}
	return nil
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func scanAppointmentType(row *sql.Row) (*entity.AppointmentType, error) {
	a := &entity.AppointmentType{}
	var allowed pq.StringArray
	err := row.Scan(&a.ID, &a.PracticeID, &a.RuleSetID, &a.ParentID, &a.Name, &a.DurationMinutes, &allowed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment type: %w", err)
	}
	a.AllowedPractitionerIDs, err = parseUUIDs(allowed)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse uuid %q: %w", s, err)
		}
		out[i] = id
	}
	return out, nil
}

func (r *appointmentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentType, error) {
	a, err := scanAppointmentType(r.db.QueryRowContext(ctx, `SELECT `+appointmentTypeColumns+` FROM appointment_types WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: id.String()}
	}
	return a, nil
}

func (r *appointmentTypeRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.AppointmentType, error) {
	a, err := scanAppointmentType(r.db.QueryRowContext(ctx, `SELECT `+appointmentTypeColumns+` FROM appointment_types WHERE rule_set_id = $1 AND name = $2`, ruleSetID, name))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: name}
	}
	return a, nil
}

func (r *appointmentTypeRepo) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.AppointmentType, error) {
	a, err := scanAppointmentType(r.db.QueryRowContext(ctx, `SELECT `+appointmentTypeColumns+` FROM appointment_types WHERE rule_set_id = $1 AND parent_id = $2`, ruleSetID, parentID))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: parentID.String()}
	}
	return a, nil
}

func (r *appointmentTypeRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.AppointmentType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+appointmentTypeColumns+` FROM appointment_types WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return nil, fmt.Errorf("query appointment types: %w", err)
	}
	defer rows.Close()

	var result []*entity.AppointmentType
	for rows.Next() {
		a := &entity.AppointmentType{}
		var allowed pq.StringArray
		if err := rows.Scan(&a.ID, &a.PracticeID, &a.RuleSetID, &a.ParentID, &a.Name, &a.DurationMinutes, &allowed); err != nil {
			return nil, fmt.Errorf("scan appointment type: %w", err)
		}
		a.AllowedPractitionerIDs, err = parseUUIDs(allowed)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *appointmentTypeRepo) Update(ctx context.Context, a *entity.AppointmentType) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE appointment_types SET name = $2, duration_minutes = $3, allowed_practitioner_ids = $4
		WHERE id = $1`, a.ID, a.Name, a.DurationMinutes, uuidArray(a.AllowedPractitionerIDs))
	if err != nil {
		return fmt.Errorf("update appointment type: %w", err)
	}
	return requireRowsAffected(result, "AppointmentType", a.ID.String())
}

func (r *appointmentTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointment_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment type: %w", err)
	}
	return requireRowsAffected(result, "AppointmentType", id.String())
}

func (r *appointmentTypeRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM appointment_types WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return fmt.Errorf("delete appointment types by rule set: %w", err)
	}
	return nil
}
