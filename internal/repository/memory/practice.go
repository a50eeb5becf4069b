package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type practiceRepo struct{ lockable }

func (r *practiceRepo) Create(ctx context.Context, p *entity.Practice) error {
	defer r.wlock()()
	r.store.practices[p.ID] = p
	return nil
}

func (r *practiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practice, error) {
	defer r.rlock()()
	p, ok := r.store.practices[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "Practice", ResourceID: id.String()}
	}
	return p, nil
}

func (r *practiceRepo) Update(ctx context.Context, p *entity.Practice) error {
	defer r.wlock()()
	if _, ok := r.store.practices[p.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "Practice", ResourceID: p.ID.String()}
	}
	p.UpdatedAt = entity.Now()
	r.store.practices[p.ID] = p
	return nil
}

func (r *practiceRepo) SetActiveRuleSet(ctx context.Context, practiceID uuid.UUID, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	p, ok := r.store.practices[practiceID]
	if !ok {
		return &repository.NotFoundError{ResourceType: "Practice", ResourceID: practiceID.String()}
	}
	id := ruleSetID
	p.CurrentActiveRuleSetID = &id
	p.UpdatedAt = entity.Now()
	return nil
}
