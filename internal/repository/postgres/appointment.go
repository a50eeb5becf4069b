package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type appointmentRepo struct{ db execer }

const appointmentColumns = `id, practice_id, practitioner_id, location_id, appointment_type_id, start_time, end_time, status, is_simulation`

func (r *appointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	a := &entity.Appointment{}
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id).
		Scan(&a.ID, &a.PracticeID, &a.PractitionerID, &a.LocationID, &a.AppointmentTypeID, &a.Start, &a.End, &status, &a.IsSimulation)
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Appointment", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	a.Status = entity.AppointmentStatus(status)
	return a, nil
}

func (r *appointmentRepo) ListOverlapping(ctx context.Context, practiceID uuid.UUID, from, to entity.Time) ([]*entity.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE practice_id = $1 AND status != $2 AND start_time < $3 AND end_time > $4`,
		practiceID, string(entity.AppointmentStatusCancelled), to, from)
	if err != nil {
		return nil, fmt.Errorf("query overlapping appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (r *appointmentRepo) ListOnDate(ctx context.Context, practiceID uuid.UUID, date entity.Date) ([]*entity.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments
		WHERE practice_id = $1 AND status != $2 AND start_time::date = $3::date`,
		practiceID, string(entity.AppointmentStatusCancelled), date)
	if err != nil {
		return nil, fmt.Errorf("query appointments on date: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointments(rows *sql.Rows) ([]*entity.Appointment, error) {
	var result []*entity.Appointment
	for rows.Next() {
		a := &entity.Appointment{}
		var status string
		if err := rows.Scan(&a.ID, &a.PracticeID, &a.PractitionerID, &a.LocationID, &a.AppointmentTypeID, &a.Start, &a.End, &status, &a.IsSimulation); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		a.Status = entity.AppointmentStatus(status)
		result = append(result, a)
	}
	return result, rows.Err()
}
