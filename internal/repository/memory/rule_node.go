package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type ruleNodeRepo struct{ lockable }

func (r *ruleNodeRepo) Create(ctx context.Context, n *entity.RuleNode) error {
	defer r.wlock()()
	r.store.ruleNodes[n.ID] = n
	return nil
}

func (r *ruleNodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleNode, error) {
	defer r.rlock()()
	n, ok := r.store.ruleNodes[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: id.String()}
	}
	return n, nil
}

func (r *ruleNodeRepo) GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.RuleNode, error) {
	defer r.rlock()()
	for _, n := range r.store.ruleNodes {
		if n.RuleSetID == ruleSetID && n.CopyFromID != nil && *n.CopyFromID == parentID {
			return n, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: parentID.String()}
}

func (r *ruleNodeRepo) ListChildren(ctx context.Context, ruleSetID uuid.UUID, parentID *uuid.UUID) ([]*entity.RuleNode, error) {
	defer r.rlock()()
	var result []*entity.RuleNode
	for _, n := range r.store.ruleNodes {
		if n.RuleSetID != ruleSetID {
			continue
		}
		if sameParent(n.ParentConditionID, parentID) {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChildOrder < result[j].ChildOrder })
	return result, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func (r *ruleNodeRepo) ListRoots(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	defer r.rlock()()
	var result []*entity.RuleNode
	for _, n := range r.store.ruleNodes {
		if n.RuleSetID == ruleSetID && n.IsRoot {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (r *ruleNodeRepo) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	defer r.rlock()()
	var result []*entity.RuleNode
	for _, n := range r.store.ruleNodes {
		if n.RuleSetID == ruleSetID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *ruleNodeRepo) Update(ctx context.Context, n *entity.RuleNode) error {
	defer r.wlock()()
	if _, ok := r.store.ruleNodes[n.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: n.ID.String()}
	}
	r.store.ruleNodes[n.ID] = n
	return nil
}

func (r *ruleNodeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.ruleNodes[id]; !ok {
		return &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: id.String()}
	}
	delete(r.store.ruleNodes, id)
	return nil
}

func (r *ruleNodeRepo) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	defer r.wlock()()
	for id, n := range r.store.ruleNodes {
		if n.RuleSetID == ruleSetID {
			delete(r.store.ruleNodes, id)
		}
	}
	return nil
}
