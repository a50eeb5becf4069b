package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type baseScheduleRepo struct{ lockable }

func (r *baseScheduleRepo) Create(ctx context.Context, b *entity.BaseSchedule) error {
	defer r.wlock()()
	r.store.baseSchedules[b.ID] = b
	return nil
}

func (r *baseScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.BaseSchedule, error) {
	defer r.rlock()()
	b, ok := r.store.baseSchedules[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: id.String()}
	}
	return b, nil
}

func (r *baseScheduleRepo) GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.BaseSchedule, error) {
	defer r.rlock()()
	for _, b := range r.store.baseSchedules {
		if b.RuleSetID == ruleSetID && b.ParentID != nil && *b.ParentID == parentID {
			return b, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: parentID.String()}
}

func (r *baseScheduleRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.BaseSchedule, error) {
	defer r.rlock()()
	var result []*entity.BaseSchedule
	for _, b := range r.store.baseSchedules {
		if b.RuleSetID == ruleSetID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *baseScheduleRepo) Update(ctx context.Context, b *entity.BaseSchedule) error {
	defer r.wlock()()
	if _, ok := r.store.baseSchedules[b.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: b.ID.String()}
	}
	r.store.baseSchedules[b.ID] = b
	return nil
}

func (r *baseScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.baseSchedules[id]; !ok {
		return &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: id.String()}
	}
	delete(r.store.baseSchedules, id)
	return nil
}

func (r *baseScheduleRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	for id, b := range r.store.baseSchedules {
		if b.RuleSetID == ruleSetID {
			delete(r.store.baseSchedules, id)
		}
	}
	return nil
}
