package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type baseScheduleRepo struct{ db execer }

const baseScheduleColumns = `id, practice_id, rule_set_id, parent_id, practitioner_id, location_id, day_of_week, start_time, end_time, break_times`

func (r *baseScheduleRepo) Create(ctx context.Context, b *entity.BaseSchedule) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	breaksJSON, err := json.Marshal(b.BreakTimes)
	if err != nil {
		return fmt.Errorf("marshal break times: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO base_schedules (id, practice_id, rule_set_id, parent_id, practitioner_id, location_id, day_of_week, start_time, end_time, break_times)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.PracticeID, b.RuleSetID, b.ParentID, b.PractitionerID, b.LocationID, b.DayOfWeek, b.StartTime, b.EndTime, breaksJSON)
	if err != nil {
		return fmt.Errorf("create base schedule: %w", err)
	}
	return nil
}

func scanBaseSchedule(row *sql.Row) (*entity.BaseSchedule, error) {
	b := &entity.BaseSchedule{}
	var breaksJSON []byte
	err := row.Scan(&b.ID, &b.PracticeID, &b.RuleSetID, &b.ParentID, &b.PractitionerID, &b.LocationID, &b.DayOfWeek, &b.StartTime, &b.EndTime, &breaksJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan base schedule: %w", err)
	}
	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &b.BreakTimes); err != nil {
			return nil, fmt.Errorf("unmarshal break times: %w", err)
		}
	}
	return b, nil
}

func (r *baseScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BaseSchedule, error) {
	b, err := scanBaseSchedule(r.db.QueryRowContext(ctx, `SELECT `+baseScheduleColumns+` FROM base_schedules WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: id.String()}
	}
	return b, nil
}

func (r *baseScheduleRepo) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.BaseSchedule, error) {
	b, err := scanBaseSchedule(r.db.QueryRowContext(ctx, `SELECT `+baseScheduleColumns+` FROM base_schedules WHERE rule_set_id = $1 AND parent_id = $2`, ruleSetID, parentID))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: parentID.String()}
	}
	return b, nil
}

func (r *baseScheduleRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.BaseSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+baseScheduleColumns+` FROM base_schedules WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return nil, fmt.Errorf("query base schedules: %w", err)
	}
	defer rows.Close()

	var result []*entity.BaseSchedule
	for rows.Next() {
		b := &entity.BaseSchedule{}
		var breaksJSON []byte
		if err := rows.Scan(&b.ID, &b.PracticeID, &b.RuleSetID, &b.ParentID, &b.PractitionerID, &b.LocationID, &b.DayOfWeek, &b.StartTime, &b.EndTime, &breaksJSON); err != nil {
			return nil, fmt.Errorf("scan base schedule: %w", err)
		}
		if len(breaksJSON) > 0 {
			if err := json.Unmarshal(breaksJSON, &b.BreakTimes); err != nil {
				return nil, fmt.Errorf("unmarshal break times: %w", err)
			}
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *baseScheduleRepo) Update(ctx context.Context, b *entity.BaseSchedule) error {
	breaksJSON, err := json.Marshal(b.BreakTimes)
	if err != nil {
		return fmt.Errorf("marshal break times: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE base_schedules SET practitioner_id = $2, location_id = $3, day_of_week = $4, start_time = $5, end_time = $6, break_times = $7
		WHERE id = $1`, b.ID, b.PractitionerID, b.LocationID, b.DayOfWeek, b.StartTime, b.EndTime, breaksJSON)
	if err != nil {
		return fmt.Errorf("update base schedule: %w", err)
	}
	return requireRowsAffected(result, "BaseSchedule", b.ID.String())
}

func (r *baseScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM base_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete base schedule: %w", err)
	}
	return requireRowsAffected(result, "BaseSchedule", id.String())
}

func (r *baseScheduleRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM base_schedules WHERE rule_set_id = $1`, ruleSetID)
	if err != nil {
		return fmt.Errorf("delete base schedules by rule set: %w", err)
	}
	return nil
}
