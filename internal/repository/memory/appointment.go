package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type appointmentRepo struct{ lockable }

func (r *appointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	defer r.rlock()()
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "Appointment", ResourceID: id.String()}
	}
	return a, nil
}

// Create is not part of the repository.AppointmentRepository contract (the
// core treats appointments as read-only, §3 "Appointment (read-only to the
// core)") but is exposed here so tests and the import layer can seed data.
func (r *appointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	defer r.wlock()()
	r.store.appointments[a.ID] = a
	return nil
}

func (r *appointmentRepo) ListOverlapping(ctx context.Context, practiceID uuid.UUID, from, to entity.Time) ([]*entity.Appointment, error) {
	defer r.rlock()()
	var result []*entity.Appointment
	for _, a := range r.store.appointments {
		if a.PracticeID != practiceID || a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		if a.Start.Before(to) && from.Before(a.End) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *appointmentRepo) ListOnDate(ctx context.Context, practiceID uuid.UUID, date entity.Date) ([]*entity.Appointment, error) {
	defer r.rlock()()
	var result []*entity.Appointment
	y, m, d := date.Date()
	for _, a := range r.store.appointments {
		if a.PracticeID != practiceID || a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		ay, am, ad := a.Start.In(date.Location()).Date()
		if ay == y && am == m && ad == d {
			result = append(result, a)
		}
	}
	return result, nil
}
