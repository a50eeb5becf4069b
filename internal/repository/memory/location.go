package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type locationRepo struct{ lockable }

func (r *locationRepo) Create(ctx context.Context, l *entity.Location) error {
	defer r.wlock()()
	r.store.locations[l.ID] = l
	return nil
}

func (r *locationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	defer r.rlock()()
	l, ok := r.store.locations[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: id.String()}
	}
	return l, nil
}

func (r *locationRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Location, error) {
	defer r.rlock()()
	for _, l := range r.store.locations {
		if l.RuleSetID == ruleSetID && l.Name == name {
			return l, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: name}
}

func (r *locationRepo) GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.Location, error) {
	defer r.rlock()()
	for _, l := range r.store.locations {
		if l.RuleSetID == ruleSetID && l.ParentID != nil && *l.ParentID == parentID {
			return l, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: parentID.String()}
}

func (r *locationRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Location, error) {
	defer r.rlock()()
	var result []*entity.Location
	for _, l := range r.store.locations {
		if l.RuleSetID == ruleSetID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (r *locationRepo) Update(ctx context.Context, l *entity.Location) error {
	defer r.wlock()()
	if _, ok := r.store.locations[l.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "Location", ResourceID: l.ID.String()}
	}
	r.store.locations[l.ID] = l
	return nil
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.locations[id]; !ok {
		return &repository.NotFoundError{ResourceType: "Location", ResourceID: id.String()}
	}
	delete(r.store.locations, id)
	return nil
}

func (r *locationRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	for id, l := range r.store.locations {
		if l.RuleSetID == ruleSetID {
			delete(r.store.locations, id)
		}
	}
	return nil
}
