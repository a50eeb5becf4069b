package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

type ruleSetRepo struct{ lockable }

func (r *ruleSetRepo) Create(ctx context.Context, rs *entity.RuleSet) error {
	defer r.wlock()()
	r.store.ruleSets[rs.ID] = rs
	return nil
}

func (r *ruleSetRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleSet, error) {
	defer r.rlock()()
	rs, ok := r.store.ruleSets[id]
	if !ok {
		return nil, &repository.NotFoundError{ResourceType: "RuleSet", ResourceID: id.String()}
	}
	return rs, nil
}

// GetDraft returns the practice's unsaved rule set, if any (§3 invariant I3:
// at most one exists).
func (r *ruleSetRepo) GetDraft(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error) {
	defer r.rlock()()
	for _, rs := range r.store.ruleSets {
		if rs.PracticeID == practiceID && !rs.Saved {
			return rs, nil
		}
	}
	return nil, nil
}

func (r *ruleSetRepo) Update(ctx context.Context, rs *entity.RuleSet) error {
	defer r.wlock()()
	if _, ok := r.store.ruleSets[rs.ID]; !ok {
		return &repository.NotFoundError{ResourceType: "RuleSet", ResourceID: rs.ID.String()}
	}
	r.store.ruleSets[rs.ID] = rs
	return nil
}

func (r *ruleSetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.wlock()()
	if _, ok := r.store.ruleSets[id]; !ok {
		return &repository.NotFoundError{ResourceType: "RuleSet", ResourceID: id.String()}
	}
	delete(r.store.ruleSets, id)
	return nil
}

func (r *ruleSetRepo) ListByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	defer r.rlock()()
	var result []*entity.RuleSet
	for _, rs := range r.store.ruleSets {
		if rs.PracticeID == practiceID {
			result = append(result, rs)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}

func (r *ruleSetRepo) ListSavedByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	defer r.rlock()()
	var result []*entity.RuleSet
	for _, rs := range r.store.ruleSets {
		if rs.PracticeID == practiceID && rs.Saved {
			result = append(result, rs)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}
