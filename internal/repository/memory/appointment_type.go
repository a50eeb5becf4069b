package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type appointmentTypeRepo struct{ lockable }

func (r *appointmentTypeRepo) Create(ctx context.Context, a *entity.AppointmentType) error {
	defer r.wlock()()
	r.store.apptTypes[a.ID] = a
	return nil
}

func (r *appointmentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentType, error) {
	defer r.rlock()()
	a, ok := r.store.apptTypes[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: id.String()}
	}
	return a, nil
}

func (r *appointmentTypeRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.AppointmentType, error) {
	defer r.rlock()()
	for _, a := range r.store.apptTypes {
		if a.RuleSetID == ruleSetID && a.Name == name {
			return a, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: name}
}

func (r *appointmentTypeRepo) GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.AppointmentType, error) {
	defer r.rlock()()
	for _, a := range r.store.apptTypes {
		if a.RuleSetID == ruleSetID && a.ParentID != nil && *a.ParentID == parentID {
			return a, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: parentID.String()}
}

func (r *appointmentTypeRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.AppointmentType, error) {
	defer r.rlock()()
	var result []*entity.AppointmentType
	for _, a := range r.store.apptTypes {
		if a.RuleSetID == ruleSetID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *appointmentTypeRepo) Update(ctx context.Context, a *entity.AppointmentType) error {
	defer r.wlock()()
	if _, ok := r.store.apptTypes[a.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: a.ID.String()}
	}
	r.store.apptTypes[a.ID] = a
	return nil
}

func (r *appointmentTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.apptTypes[id]; !ok {
		return &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: id.String()}
	}
	delete(r.store.apptTypes, id)
	return nil
}

func (r *appointmentTypeRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	for id, a := range r.store.apptTypes {
		if a.RuleSetID == ruleSetID {
			delete(r.store.apptTypes, id)
		}
	}
	return nil
}
