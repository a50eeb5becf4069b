// Package remap implements §4.2: deep-copying a rule set's entities into a
// freshly created target rule set, building an IdMap per entity kind, and
// remapping every intra-set reference through those maps.
//
// The copy proceeds leaves-first (Practitioners, Locations before the
// AppointmentTypes and BaseSchedules that reference them, RuleNodes last
// since a leaf condition may reference any of the above). An unmapped
// reference at any step is a CorruptMapping — never silently dropped, per
// the regression the spec calls out explicitly.
package remap

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

// IDMap translates a source-set entity id to its target-set counterpart.
type IDMap map[uuid.UUID]uuid.UUID

// Result collects the four entity IdMaps produced by a deep copy (RuleNodes
// remap through the first three; they get no IdMap of their own since
// nothing ever needs to remap a reference *to* a RuleNode).
type Result struct {
	Practitioners IDMap
	Locations     IDMap
	AppointmentTypes IDMap
	BaseSchedules IDMap
}

// DeepCopy copies every entity owned by sourceRuleSetID into targetRuleSetID
// within tx, in dependency order, and returns the id maps built along the
// way. Callers must have already created the target RuleSet row.
func DeepCopy(ctx context.Context, tx repository.Transaction, practiceID, sourceRuleSetID, targetRuleSetID uuid.UUID) (*Result, error) {
	res := &Result{
		Practitioners:    make(IDMap),
		Locations:        make(IDMap),
		AppointmentTypes: make(IDMap),
		BaseSchedules:    make(IDMap),
	}

	if err := copyPractitioners(ctx, tx, practiceID, sourceRuleSetID, targetRuleSetID, res); err != nil {
		return nil, err
	}
	if err := copyLocations(ctx, tx, practiceID, sourceRuleSetID, targetRuleSetID, res); err != nil {
		return nil, err
	}
	if err := copyAppointmentTypes(ctx, tx, practiceID, sourceRuleSetID, targetRuleSetID, res); err != nil {
		return nil, err
	}
	if err := copyBaseSchedules(ctx, tx, practiceID, sourceRuleSetID, targetRuleSetID, res); err != nil {
		return nil, err
	}
	if err := copyRuleNodes(ctx, tx, practiceID, sourceRuleSetID, targetRuleSetID, res); err != nil {
		return nil, err
	}
	return res, nil
}

func copyPractitioners(ctx context.Context, tx repository.Transaction, practiceID, source, target uuid.UUID, res *Result) error {
	repo := tx.PractitionerRepository()
	items, err := repo.ListByRuleSet(ctx, source)
	if err != nil {
		return err
	}
	for _, p := range items {
		newID := uuid.New()
		copyID := p.ID
		cp := &entity.Practitioner{
			ID:         newID,
			PracticeID: practiceID,
			RuleSetID:  target,
			ParentID:   &copyID,
			Name:       p.Name,
			Tags:       append([]string(nil), p.Tags...),
		}
		if err := repo.Create(ctx, cp); err != nil {
			return err
		}
		res.Practitioners[p.ID] = newID
	}
	return nil
}

func copyLocations(ctx context.Context, tx repository.Transaction, practiceID, source, target uuid.UUID, res *Result) error {
	repo := tx.LocationRepository()
	items, err := repo.ListByRuleSet(ctx, source)
	if err != nil {
		return err
	}
	for _, l := range items {
		newID := uuid.New()
		copyID := l.ID
		cp := &entity.Location{
			ID:         newID,
			PracticeID: practiceID,
			RuleSetID:  target,
			ParentID:   &copyID,
			Name:       l.Name,
		}
		if err := repo.Create(ctx, cp); err != nil {
			return err
		}
		res.Locations[l.ID] = newID
	}
	return nil
}

func copyAppointmentTypes(ctx context.Context, tx repository.Transaction, practiceID, source, target uuid.UUID, res *Result) error {
	repo := tx.AppointmentTypeRepository()
	items, err := repo.ListByRuleSet(ctx, source)
	if err != nil {
		return err
	}
	for _, a := range items {
		remappedAllowed := make([]uuid.UUID, 0, len(a.AllowedPractitionerIDs))
		for _, pid := range a.AllowedPractitionerIDs {
			newPID, ok := res.Practitioners[pid]
			if !ok {
				return entity.ErrCorruptMapping("appointment type " + a.ID.String() + " references unmapped practitioner " + pid.String())
			}
			remappedAllowed = append(remappedAllowed, newPID)
		}
		newID := uuid.New()
		copyID := a.ID
		cp := &entity.AppointmentType{
			ID:                     newID,
			PracticeID:             practiceID,
			RuleSetID:              target,
			ParentID:               &copyID,
			Name:                   a.Name,
			DurationMinutes:        a.DurationMinutes,
			AllowedPractitionerIDs: remappedAllowed,
		}
		if err := repo.Create(ctx, cp); err != nil {
			return err
		}
		res.AppointmentTypes[a.ID] = newID
	}
	return nil
}

func copyBaseSchedules(ctx context.Context, tx repository.Transaction, practiceID, source, target uuid.UUID, res *Result) error {
	repo := tx.BaseScheduleRepository()
	items, err := repo.ListByRuleSet(ctx, source)
	if err != nil {
		return err
	}
	for _, b := range items {
		newPractitionerID, ok := res.Practitioners[b.PractitionerID]
		if !ok {
			return entity.ErrCorruptMapping("base schedule " + b.ID.String() + " references unmapped practitioner " + b.PractitionerID.String())
		}
		newLocationID, ok := res.Locations[b.LocationID]
		if !ok {
			return entity.ErrCorruptMapping("base schedule " + b.ID.String() + " references unmapped location " + b.LocationID.String())
		}
		newID := uuid.New()
		copyID := b.ID
		cp := &entity.BaseSchedule{
			ID:             newID,
			PracticeID:     practiceID,
			RuleSetID:      target,
			ParentID:       &copyID,
			PractitionerID: newPractitionerID,
			LocationID:     newLocationID,
			DayOfWeek:      b.DayOfWeek,
			StartTime:      b.StartTime,
			EndTime:        b.EndTime,
			BreakTimes:     append([]entity.BreakWindow(nil), b.BreakTimes...),
		}
		if err := repo.Create(ctx, cp); err != nil {
			return err
		}
		res.BaseSchedules[b.ID] = newID
	}
	return nil
}

// copyRuleNodes walks every root tree in the source set and copies it node
// by node, parent before children (so a child's ParentConditionID can
// reference the already-created target-set parent).
func copyRuleNodes(ctx context.Context, tx repository.Transaction, practiceID, source, target uuid.UUID, res *Result) error {
	repo := tx.RuleNodeRepository()
	roots, err := repo.ListRoots(ctx, source)
	if err != nil {
		return err
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ChildOrder < roots[j].ChildOrder })

	var walk func(node *entity.RuleNode, newParentID *uuid.UUID) error
	walk = func(node *entity.RuleNode, newParentID *uuid.UUID) error {
		newValueIDs, err := remapValueIDs(node.ConditionType, node.ValueIDs, res)
		if err != nil {
			return err
		}
		newID := uuid.New()
		copyFrom := node.ID
		cp := &entity.RuleNode{
			ID:                newID,
			PracticeID:        practiceID,
			RuleSetID:         target,
			ParentConditionID: newParentID,
			ChildOrder:        node.ChildOrder,
			IsRoot:            node.IsRoot,
			CopyFromID:        &copyFrom,
			CreatedAt:         node.CreatedAt,
			LastModified:      node.LastModified,
			Enabled:           node.Enabled,
			NodeType:          node.NodeType,
			ConditionType:     node.ConditionType,
			Operator:          node.Operator,
			ValueIDs:          newValueIDs,
			ValueNumber:       node.ValueNumber,
			Scope:             node.Scope,
		}
		if err := repo.Create(ctx, cp); err != nil {
			return err
		}

		children, err := repo.ListChildren(ctx, source, &node.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := walk(child, &newID); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, nil); err != nil {
			return err
		}
	}
	return nil
}

// remapValueIDs translates a leaf's ValueIDs per §4.2's per-conditionType
// dispatch table; entity-referencing types look the id up in the relevant
// IdMap, everything else carries through verbatim.
func remapValueIDs(ct entity.ConditionType, valueIDs []string, res *Result) ([]string, error) {
	if !entity.ReferencesEntities(ct) {
		return append([]string(nil), valueIDs...), nil
	}

	var table IDMap
	switch ct {
	case entity.ConditionPractitioner:
		table = res.Practitioners
	case entity.ConditionLocation:
		table = res.Locations
	case entity.ConditionAppointmentType, entity.ConditionConcurrentCount, entity.ConditionDailyCapacity:
		table = res.AppointmentTypes
	default:
		return append([]string(nil), valueIDs...), nil
	}

	out := make([]string, 0, len(valueIDs))
	for _, v := range valueIDs {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, entity.ErrCorruptMapping("value id is not a valid entity id: " + v)
		}
		newID, ok := table[id]
		if !ok {
			return nil, entity.ErrCorruptMapping("condition references unmapped " + string(ct) + " id " + v)
		}
		out = append(out, newID.String())
	}
	return out, nil
}
