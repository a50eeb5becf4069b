package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type practitionerRepo struct{ lockable }

func (r *practitionerRepo) Create(ctx context.Context, p *entity.Practitioner) error {
	defer r.wlock()()
	r.store.practitioners[p.ID] = p
	return nil
}

func (r *practitionerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error) {
	defer r.rlock()()
	p, ok := r.store.practitioners[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: id.String()}
	}
	return p, nil
}

func (r *practitionerRepo) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Practitioner, error) {
	defer r.rlock()()
	for _, p := range r.store.practitioners {
		if p.RuleSetID == ruleSetID && p.Name == name {
			return p, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: name}
}

func (r *practitionerRepo) GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.Practitioner, error) {
	defer r.rlock()()
	for _, p := range r.store.practitioners {
		if p.RuleSetID == ruleSetID && p.ParentID != nil && *p.ParentID == parentID {
			return p, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: parentID.String()}
}

func (r *practitionerRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Practitioner, error) {
	defer r.rlock()()
	var result []*entity.Practitioner
	for _, p := range r.store.practitioners {
		if p.RuleSetID == ruleSetID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *practitionerRepo) Update(ctx context.Context, p *entity.Practitioner) error {
	defer r.wlock()()
	if _, ok := r.store.practitioners[p.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: p.ID.String()}
	}
	r.store.practitioners[p.ID] = p
	return nil
}

func (r *practitionerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.practitioners[id]; !ok {
		return &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: id.String()}
	}
	delete(r.store.practitioners, id)
	return nil
}

func (r *practitionerRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	for id, p := range r.store.practitioners {
		if p.RuleSetID == ruleSetID {
			delete(r.store.practitioners, id)
		}
	}
	return nil
}
