// Package evaluate implements §4.5 (rule evaluation) and §4.6 (result
// assembly and logging): for every candidate slot, walk each enabled root
// rule tree in order and block the slot on the first tree whose evaluation
// is true, recording which rule and which leaf did it.
//
// Grounded on the teacher's internal/service/coverage package for the
// "pure function over plain data" shape, and internal/api/response.go for
// the {data, log} assembly pattern returned to callers.
package evaluate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/johannesbremer/praxisplaner/internal/slotgen"
	"github.com/johannesbremer/praxisplaner/internal/validation"
)

func dateOnly(t time.Time) time.Time {
	t = t.In(slotgen.PracticeLocation)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, slotgen.PracticeLocation)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, slotgen.PracticeLocation)
}

func parseClockOnDay(day time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, slotgen.PracticeLocation)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.In(slotgen.PracticeLocation).Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, slotgen.PracticeLocation), nil
}

// Counter resolves the aggregate facts a CONCURRENT_COUNT/DAILY_CAPACITY
// condition needs: how many non-cancelled appointments of a given type
// already overlap a slot, or already exist on its day.
type Counter struct {
	repo repository.AppointmentRepository
}

// NewCounter wraps an AppointmentRepository for aggregate-condition lookups.
func NewCounter(repo repository.AppointmentRepository) *Counter {
	return &Counter{repo: repo}
}

func (c *Counter) concurrentCount(ctx context.Context, practiceID entity.PracticeID, slot entity.Slot, n *entity.RuleNode, includeSimulation bool) (int, error) {
	appts, err := c.repo.ListOverlapping(ctx, practiceID, slot.StartTime, slot.EndTime)
	if err != nil {
		return 0, err
	}
	return countMatching(appts, slot, n, includeSimulation), nil
}

func (c *Counter) dailyCount(ctx context.Context, practiceID entity.PracticeID, slot entity.Slot, n *entity.RuleNode, includeSimulation bool) (int, error) {
	appts, err := c.repo.ListOnDate(ctx, practiceID, slot.StartTime)
	if err != nil {
		return 0, err
	}
	return countMatching(appts, slot, n, includeSimulation), nil
}

// countMatching applies the §3 filtering rules ListOverlapping/ListOnDate
// don't: an optional appointmentType filter (n.ValueIDs, empty = every
// type), an optional per-practitioner scope, and simulation-appointment
// exclusion unless this request is itself a simulation.
func countMatching(appts []*entity.Appointment, slot entity.Slot, n *entity.RuleNode, includeSimulation bool) int {
	count := 0
	for _, a := range appts {
		if a.IsSimulation && !includeSimulation {
			continue
		}
		if len(n.ValueIDs) > 0 && !appointmentTypeMatches(a.AppointmentTypeID, n.ValueIDs) {
			continue
		}
		if n.Scope == entity.ScopePerPractitioner && a.PractitionerID != slot.PractitionerID {
			continue
		}
		count++
	}
	return count
}

func appointmentTypeMatches(id *entity.AppointmentTypeID, valueIDs []string) bool {
	if id == nil {
		return false
	}
	s := id.String()
	for _, v := range valueIDs {
		if v == s {
			return true
		}
	}
	return false
}

// BlockEvent records one slot-blocking decision for the result's log.
type BlockEvent struct {
	Slot        entity.Slot
	RuleID      entity.RuleNodeID
	Path        string
}

// Result is the {slots, log} assembly §4.6 describes: every input slot
// annotated AVAILABLE or BLOCKED, plus a human-readable log line per block.
type Result struct {
	Slots []entity.Slot
	Log   []string
}

// Context carries the per-request facts a slot's own fields don't determine
// (§6's Context shape): which appointment type is being booked, whether the
// patient is new, whether this request is itself a simulation (§4.5:
// simulation-flagged appointments count toward aggregates only then), and
// a repository to resolve a slot's practitioner for PRACTITIONER_TAG.
type Context struct {
	AppointmentTypeID entity.AppointmentTypeID
	PatientIsNew      bool
	IsSimulation      bool
	Practitioners     repository.PractitionerRepository
}

// FormatBlockLine renders one BlockEvent per §4.6's fixed log format.
func FormatBlockLine(ev BlockEvent) string {
	return fmt.Sprintf("BLOCK slot={practitionerId=%s, start=%s} by={ruleId=%s} cond={%s}",
		ev.Slot.PractitionerID.String(), ev.Slot.StartTime.Format("2006-01-02T15:04"), ev.RuleID.String(), ev.Path)
}

// Evaluate walks roots (ordered by createdAt, id — the same determinism
// RuleNodeRepository.ListRoots guarantees) against every slot and returns
// the annotated slots plus the block log. Disabled roots are skipped
// entirely, per §3's Enabled flag.
func Evaluate(ctx context.Context, practiceID entity.PracticeID, roots []*validation.Tree, slots []entity.Slot, counter *Counter, evalCtx Context) (*Result, error) {
	sorted := make([]*validation.Tree, len(roots))
	copy(sorted, roots)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Node, sorted[j].Node
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	res := &Result{Slots: make([]entity.Slot, len(slots))}
	copy(res.Slots, slots)

	for i := range res.Slots {
		slot := &res.Slots[i]
		for _, root := range sorted {
			if !root.Node.Enabled {
				continue
			}
			matched, leaf, path, err := evalTree(ctx, practiceID, root, *slot, counter, evalCtx, nil)
			if err != nil {
				return nil, err
			}
			if matched {
				ruleID := root.Node.ID
				slot.Status = entity.SlotBlocked
				slot.BlockedByRuleID = &ruleID
				ev := BlockEvent{Slot: *slot, RuleID: ruleID, Path: validation.DescribePath(append(path, leaf))}
				res.Log = append(res.Log, FormatBlockLine(ev))
				break
			}
		}
	}
	return res, nil
}

// evalTree recursively evaluates t against slot. It returns whether the
// subtree matched, the leaf node that ultimately decided it (for
// provenance), and the ancestor path walked to reach that leaf.
func evalTree(ctx context.Context, practiceID entity.PracticeID, t *validation.Tree, slot entity.Slot, counter *Counter, evalCtx Context, path []*entity.RuleNode) (bool, *entity.RuleNode, []*entity.RuleNode, error) {
	n := t.Node
	switch n.NodeType {
	case entity.NodeTypeCONDITION:
		ok, err := evalCondition(ctx, practiceID, n, slot, counter, evalCtx)
		return ok, n, path, err

	case entity.NodeTypeNOT:
		if len(t.Children) != 1 {
			return false, n, path, nil
		}
		child := t.Children[0]
		ok, leaf, childPath, err := evalTree(ctx, practiceID, child, slot, counter, evalCtx, append(path, n))
		if err != nil {
			return false, nil, nil, err
		}
		return !ok, leaf, childPath, nil

	case entity.NodeTypeAND:
		var firstLeaf *entity.RuleNode
		var firstPath []*entity.RuleNode
		for i, child := range t.Children {
			ancestors := append(append([]*entity.RuleNode(nil), path...), n)
			ok, leaf, childPath, err := evalTree(ctx, practiceID, child, slot, counter, evalCtx, ancestors)
			if err != nil {
				return false, nil, nil, err
			}
			if !ok {
				return false, leaf, childPath, nil
			}
			if i == 0 {
				firstLeaf, firstPath = leaf, childPath
			}
		}
		if firstLeaf == nil {
			return true, n, path, nil
		}
		return true, firstLeaf, firstPath, nil
	}
	return false, n, path, nil
}

func evalCondition(ctx context.Context, practiceID entity.PracticeID, n *entity.RuleNode, slot entity.Slot, counter *Counter, evalCtx Context) (bool, error) {
	switch n.ConditionType {
	case entity.ConditionPractitioner:
		return matchesIDSet(n, slot.PractitionerID.String()), nil

	case entity.ConditionLocation:
		return matchesIDSet(n, slot.LocationID.String()), nil

	case entity.ConditionAppointmentType:
		return matchesIDSet(n, evalCtx.AppointmentTypeID.String()), nil

	case entity.ConditionClientType:
		clientType := "existing"
		if evalCtx.PatientIsNew {
			clientType = "new"
		}
		return matchesIDSet(n, clientType), nil

	case entity.ConditionPractitionerTag:
		if evalCtx.Practitioners == nil {
			return false, nil
		}
		p, err := evalCtx.Practitioners.GetByID(ctx, slot.PractitionerID)
		if err != nil {
			return false, err
		}
		return matchesAnyTag(n, p.Tags), nil

	case entity.ConditionDayOfWeek:
		return matchesIDSet(n, fmt.Sprintf("%d", int(slot.StartTime.Weekday()))), nil

	case entity.ConditionDateRange:
		if len(n.ValueIDs) != 2 {
			return false, nil
		}
		start, err1 := parseDate(n.ValueIDs[0])
		end, err2 := parseDate(n.ValueIDs[1])
		if err1 != nil || err2 != nil {
			return false, nil
		}
		day := dateOnly(slot.StartTime)
		return !day.Before(start) && !day.After(end), nil

	case entity.ConditionTimeRange:
		if len(n.ValueIDs) != 2 {
			return false, nil
		}
		startClock, err1 := parseClockOnDay(slot.StartTime, n.ValueIDs[0])
		endClock, err2 := parseClockOnDay(slot.StartTime, n.ValueIDs[1])
		if err1 != nil || err2 != nil {
			return false, nil
		}
		return !slot.StartTime.Before(startClock) && slot.StartTime.Before(endClock), nil

	case entity.ConditionDaysAhead:
		if n.ValueNumber == nil {
			return false, nil
		}
		days := dateOnly(slot.StartTime).Sub(dateOnly(entity.Now())).Hours() / 24
		return compareNumber(n.Operator, days, *n.ValueNumber), nil

	case entity.ConditionConcurrentCount:
		if n.ValueNumber == nil || counter == nil {
			return false, nil
		}
		count, err := counter.concurrentCount(ctx, practiceID, slot, n, evalCtx.IsSimulation)
		if err != nil {
			return false, err
		}
		return compareNumber(n.Operator, float64(count), *n.ValueNumber), nil

	case entity.ConditionDailyCapacity:
		if n.ValueNumber == nil || counter == nil {
			return false, nil
		}
		count, err := counter.dailyCount(ctx, practiceID, slot, n, evalCtx.IsSimulation)
		if err != nil {
			return false, err
		}
		return compareNumber(n.Operator, float64(count), *n.ValueNumber), nil
	}
	return false, nil
}

func matchesIDSet(n *entity.RuleNode, value string) bool {
	found := false
	for _, v := range n.ValueIDs {
		if v == value {
			found = true
			break
		}
	}
	switch n.Operator {
	case entity.OpIs:
		return found
	case entity.OpIsNot:
		return !found
	}
	return false
}

// matchesAnyTag reports whether any of tags is present in n.ValueIDs (§3:
// "any tag of slot.practitioner ∈ valueIds"), then applies IS/IS_NOT.
func matchesAnyTag(n *entity.RuleNode, tags []string) bool {
	found := false
outer:
	for _, tag := range tags {
		for _, v := range n.ValueIDs {
			if tag == v {
				found = true
				break outer
			}
		}
	}
	switch n.Operator {
	case entity.OpIs:
		return found
	case entity.OpIsNot:
		return !found
	}
	return false
}

func compareNumber(op entity.Operator, actual, threshold float64) bool {
	switch op {
	case entity.OpEquals:
		return actual == threshold
	case entity.OpLessThanOrEqual:
		return actual <= threshold
	case entity.OpGreaterThanOrEqual:
		return actual >= threshold
	}
	return false
}
