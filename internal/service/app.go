// Package service is the application layer §6 describes: one write
// operation per entity kind (each implicitly forking/reusing the
// practice's draft first), the read operations over a rule set, and the
// three evaluation operations that turn a rule set + context into slots.
//
// Grounded on the teacher's schedule_version_service.go for the
// service-wraps-repository shape and fmt.Errorf wrapping; the draft-first
// write pattern and rule-tree assembly are new since the teacher has no
// CoW analogue.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/evaluate"
	"github.com/johannesbremer/praxisplaner/internal/repository"
	"github.com/johannesbremer/praxisplaner/internal/slotgen"
	"github.com/johannesbremer/praxisplaner/internal/store"
	"github.com/johannesbremer/praxisplaner/internal/validation"
)

// App is the single entry point the API layer calls into.
type App struct {
	db     repository.Database
	config *store.ConfigStore
}

// NewApp wires a repository.Database into the full application layer.
func NewApp(db repository.Database) *App {
	return &App{db: db, config: store.NewConfigStore(db)}
}

// WriteResult is the `{ entityId, ruleSetId }` shape every §6 write
// operation returns.
type WriteResult struct {
	EntityID  uuid.UUID
	RuleSetID uuid.UUID
}

func (a *App) draft(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID) (uuid.UUID, error) {
	return a.config.GetOrCreateDraft(ctx, practiceID, sourceRuleSetID)
}

// --- Practitioner ---

func (a *App) CreatePractitioner(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, name string, tags []string) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	p := &entity.Practitioner{ID: uuid.New(), PracticeID: practiceID, RuleSetID: ruleSetID, Name: name, Tags: tags}
	if err := a.db.PractitionerRepository().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create practitioner: %w", err)
	}
	return &WriteResult{EntityID: p.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) UpdatePractitioner(ctx context.Context, practiceID, sourceRuleSetID, practitionerID uuid.UUID, name string, tags []string) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	p, err := a.db.PractitionerRepository().GetByID(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(p.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	p.Name, p.Tags = name, tags
	if err := a.db.PractitionerRepository().Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update practitioner: %w", err)
	}
	return &WriteResult{EntityID: p.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) DeletePractitioner(ctx context.Context, practiceID, sourceRuleSetID, practitionerID uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	p, err := a.db.PractitionerRepository().GetByID(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(p.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	if err := a.db.PractitionerRepository().Delete(ctx, practitionerID); err != nil {
		return nil, fmt.Errorf("delete practitioner: %w", err)
	}
	return &WriteResult{EntityID: practitionerID, RuleSetID: ruleSetID}, nil
}

// --- Location ---

func (a *App) CreateLocation(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, name string) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	l := &entity.Location{ID: uuid.New(), PracticeID: practiceID, RuleSetID: ruleSetID, Name: name}
	if err := a.db.LocationRepository().Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &WriteResult{EntityID: l.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) UpdateLocation(ctx context.Context, practiceID, sourceRuleSetID, locationID uuid.UUID, name string) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	l, err := a.db.LocationRepository().GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(l.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	l.Name = name
	if err := a.db.LocationRepository().Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return &WriteResult{EntityID: l.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) DeleteLocation(ctx context.Context, practiceID, sourceRuleSetID, locationID uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	l, err := a.db.LocationRepository().GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(l.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	if err := a.db.LocationRepository().Delete(ctx, locationID); err != nil {
		return nil, fmt.Errorf("delete location: %w", err)
	}
	return &WriteResult{EntityID: locationID, RuleSetID: ruleSetID}, nil
}

// --- AppointmentType ---

func (a *App) CreateAppointmentType(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, name string, durationMinutes int, allowed []uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	at := &entity.AppointmentType{
		ID: uuid.New(), PracticeID: practiceID, RuleSetID: ruleSetID,
		Name: name, DurationMinutes: durationMinutes, AllowedPractitionerIDs: allowed,
	}
	if err := a.db.AppointmentTypeRepository().Create(ctx, at); err != nil {
		return nil, fmt.Errorf("create appointment type: %w", err)
	}
	return &WriteResult{EntityID: at.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) UpdateAppointmentType(ctx context.Context, practiceID, sourceRuleSetID, typeID uuid.UUID, name string, durationMinutes int, allowed []uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	at, err := a.db.AppointmentTypeRepository().GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(at.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	at.Name, at.DurationMinutes, at.AllowedPractitionerIDs = name, durationMinutes, allowed
	if err := a.db.AppointmentTypeRepository().Update(ctx, at); err != nil {
		return nil, fmt.Errorf("update appointment type: %w", err)
	}
	return &WriteResult{EntityID: at.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) DeleteAppointmentType(ctx context.Context, practiceID, sourceRuleSetID, typeID uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	at, err := a.db.AppointmentTypeRepository().GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(at.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	if err := a.db.AppointmentTypeRepository().Delete(ctx, typeID); err != nil {
		return nil, fmt.Errorf("delete appointment type: %w", err)
	}
	return &WriteResult{EntityID: typeID, RuleSetID: ruleSetID}, nil
}

// --- BaseSchedule ---

func (a *App) CreateBaseSchedule(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, b entity.BaseSchedule) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	b.ID, b.PracticeID, b.RuleSetID = uuid.New(), practiceID, ruleSetID
	if err := a.db.BaseScheduleRepository().Create(ctx, &b); err != nil {
		return nil, fmt.Errorf("create base schedule: %w", err)
	}
	return &WriteResult{EntityID: b.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) UpdateBaseSchedule(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, b entity.BaseSchedule) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	existing, err := a.db.BaseScheduleRepository().GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(existing.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	b.RuleSetID, b.PracticeID = ruleSetID, practiceID
	if err := a.db.BaseScheduleRepository().Update(ctx, &b); err != nil {
		return nil, fmt.Errorf("update base schedule: %w", err)
	}
	return &WriteResult{EntityID: b.ID, RuleSetID: ruleSetID}, nil
}

func (a *App) DeleteBaseSchedule(ctx context.Context, practiceID, sourceRuleSetID, scheduleID uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	b, err := a.db.BaseScheduleRepository().GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(b.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	if err := a.db.BaseScheduleRepository().Delete(ctx, scheduleID); err != nil {
		return nil, fmt.Errorf("delete base schedule: %w", err)
	}
	return &WriteResult{EntityID: scheduleID, RuleSetID: ruleSetID}, nil
}

func requireDraftOwnership(entityRuleSetID, draftID uuid.UUID) error {
	if entityRuleSetID != draftID {
		return entity.ErrMismatch("entity does not belong to the current draft rule set")
	}
	return nil
}

// --- Rules ---

// RuleInput is the caller-supplied shape for creating or editing a single
// node; CreateRule/UpdateRule assemble it into an entity.RuleNode and
// validate it before persisting.
type RuleInput struct {
	ParentID      *uuid.UUID
	ChildOrder    int
	NodeType      entity.NodeType
	ConditionType entity.ConditionType
	Operator      entity.Operator
	ValueIDs      []string
	ValueNumber   *float64
	Scope         entity.Scope
	Enabled       bool
}

// CreateRule validates and persists one node (root if ParentID is nil).
func (a *App) CreateRule(ctx context.Context, practiceID, sourceRuleSetID uuid.UUID, in RuleInput) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	n := &entity.RuleNode{
		ID: uuid.New(), PracticeID: practiceID, RuleSetID: ruleSetID,
		ParentConditionID: in.ParentID, ChildOrder: in.ChildOrder, IsRoot: in.ParentID == nil,
		CreatedAt: entity.Now(), LastModified: entity.Now(), Enabled: in.Enabled,
		NodeType: in.NodeType, ConditionType: in.ConditionType, Operator: in.Operator,
		ValueIDs: in.ValueIDs, ValueNumber: in.ValueNumber, Scope: in.Scope,
	}
	if res := validation.ValidateNode(n); !res.IsValid() {
		return nil, entity.NewCoreError(entity.KindValidation, "rule node failed validation").WithDetails(map[string]interface{}{"messages": res.Messages})
	}
	if err := a.db.RuleNodeRepository().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create rule node: %w", err)
	}
	return &WriteResult{EntityID: n.ID, RuleSetID: ruleSetID}, nil
}

// UpdateRule only ever toggles Enabled — §6 names `updateRule(enabled?)`
// as the one mutable field on an existing node; everything else about a
// node's shape is fixed once created (edit-by-delete-and-recreate keeps
// the condition tree's structural invariants trivial to maintain).
func (a *App) UpdateRule(ctx context.Context, practiceID, sourceRuleSetID, ruleID uuid.UUID, enabled bool) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	n, err := a.db.RuleNodeRepository().GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(n.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	n.Enabled = enabled
	n.LastModified = entity.Now()
	if err := a.db.RuleNodeRepository().Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update rule node: %w", err)
	}
	return &WriteResult{EntityID: n.ID, RuleSetID: ruleSetID}, nil
}

// DeleteRule removes a node and every descendant beneath it.
func (a *App) DeleteRule(ctx context.Context, practiceID, sourceRuleSetID, ruleID uuid.UUID) (*WriteResult, error) {
	ruleSetID, err := a.draft(ctx, practiceID, sourceRuleSetID)
	if err != nil {
		return nil, err
	}
	n, err := a.db.RuleNodeRepository().GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if err := requireDraftOwnership(n.RuleSetID, ruleSetID); err != nil {
		return nil, err
	}
	if err := a.deleteRuleSubtree(ctx, ruleSetID, ruleID); err != nil {
		return nil, err
	}
	return &WriteResult{EntityID: ruleID, RuleSetID: ruleSetID}, nil
}

func (a *App) deleteRuleSubtree(ctx context.Context, ruleSetID, nodeID uuid.UUID) error {
	children, err := a.db.RuleNodeRepository().ListChildren(ctx, ruleSetID, &nodeID)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := a.deleteRuleSubtree(ctx, ruleSetID, c.ID); err != nil {
			return err
		}
	}
	if err := a.db.RuleNodeRepository().Delete(ctx, nodeID); err != nil {
		return fmt.Errorf("delete rule node: %w", err)
	}
	return nil
}

// --- Draft lifecycle passthroughs ---

func (a *App) SaveDraft(ctx context.Context, practiceID uuid.UUID, description string, setAsActive bool) (uuid.UUID, error) {
	return a.config.SaveDraft(ctx, practiceID, description, setAsActive)
}

func (a *App) DiscardDraft(ctx context.Context, practiceID uuid.UUID) error {
	return a.config.DiscardDraft(ctx, practiceID)
}

func (a *App) SetActiveRuleSet(ctx context.Context, practiceID, ruleSetID uuid.UUID) error {
	return a.config.SetActive(ctx, practiceID, ruleSetID)
}

func (a *App) VersionHistory(ctx context.Context, practiceID uuid.UUID) ([]store.VersionHistoryEntry, error) {
	return a.config.VersionHistory(ctx, practiceID)
}

// --- Reads ---

func (a *App) ListAppointmentTypes(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.AppointmentType, error) {
	return a.db.AppointmentTypeRepository().ListByRuleSet(ctx, ruleSetID)
}

func (a *App) ListPractitioners(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Practitioner, error) {
	return a.db.PractitionerRepository().ListByRuleSet(ctx, ruleSetID)
}

func (a *App) ListLocations(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Location, error) {
	return a.db.LocationRepository().ListByRuleSet(ctx, ruleSetID)
}

func (a *App) ListBaseSchedules(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.BaseSchedule, error) {
	return a.db.BaseScheduleRepository().ListByRuleSet(ctx, ruleSetID)
}

func (a *App) ListRules(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	return a.db.RuleNodeRepository().ListRoots(ctx, ruleSetID)
}

// GetRule returns a root's full nested tree plus its validation result,
// per §6's "returns the root metadata plus the fully expanded nested
// condition tree".
func (a *App) GetRule(ctx context.Context, ruleSetID, ruleID uuid.UUID) (*validation.Tree, *validation.Result, error) {
	n, err := a.db.RuleNodeRepository().GetByID(ctx, ruleID)
	if err != nil {
		return nil, nil, err
	}
	if n.RuleSetID != ruleSetID {
		return nil, nil, entity.ErrMismatch("rule does not belong to the given rule set")
	}
	tree, err := a.buildTree(ctx, ruleSetID, n)
	if err != nil {
		return nil, nil, err
	}
	return tree, validation.ValidateTree(tree), nil
}

func (a *App) buildTree(ctx context.Context, ruleSetID uuid.UUID, n *entity.RuleNode) (*validation.Tree, error) {
	children, err := a.db.RuleNodeRepository().ListChildren(ctx, ruleSetID, &n.ID)
	if err != nil {
		return nil, err
	}
	t := &validation.Tree{Node: n}
	for _, c := range children {
		ct, err := a.buildTree(ctx, ruleSetID, c)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, ct)
	}
	return t, nil
}

func (a *App) allTrees(ctx context.Context, ruleSetID uuid.UUID) ([]*validation.Tree, error) {
	roots, err := a.db.RuleNodeRepository().ListRoots(ctx, ruleSetID)
	if err != nil {
		return nil, err
	}
	trees := make([]*validation.Tree, 0, len(roots))
	for _, r := range roots {
		t, err := a.buildTree(ctx, ruleSetID, r)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

func (a *App) GetActiveRuleSet(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error) {
	p, err := a.db.PracticeRepository().GetByID(ctx, practiceID)
	if err != nil {
		return nil, err
	}
	if p.CurrentActiveRuleSetID == nil {
		return nil, entity.ErrNotFound("ActiveRuleSet", practiceID.String())
	}
	return a.db.RuleSetRepository().GetByID(ctx, *p.CurrentActiveRuleSetID)
}

func (a *App) GetDraft(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error) {
	return a.db.RuleSetRepository().GetDraft(ctx, practiceID)
}

func (a *App) ListSavedRuleSets(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	return a.db.RuleSetRepository().ListSavedByPractice(ctx, practiceID)
}

func (a *App) ListAllRuleSets(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	return a.db.RuleSetRepository().ListByPractice(ctx, practiceID)
}

// --- Evaluation ---

// EvalContext mirrors §6's Context shape.
type EvalContext struct {
	PatientIsNew      bool
	AppointmentTypeID uuid.UUID
	LocationID        *uuid.UUID
	IsSimulation      bool
}

func (a *App) resolveRuleSetID(ctx context.Context, practiceID uuid.UUID, ruleSetID *uuid.UUID) (uuid.UUID, error) {
	if ruleSetID != nil {
		return *ruleSetID, nil
	}
	rs, err := a.GetActiveRuleSet(ctx, practiceID)
	if err != nil {
		return uuid.Nil, err
	}
	return rs.ID, nil
}

func (a *App) schedulesAndDuration(ctx context.Context, ruleSetID uuid.UUID, evalCtx EvalContext) ([]*entity.BaseSchedule, time.Duration, error) {
	if evalCtx.AppointmentTypeID == uuid.Nil {
		return nil, 0, entity.NewCoreError(entity.KindValidation, "appointmentTypeId is required").
			WithHelp("evaluation context must name the appointment type being booked")
	}
	at, err := a.db.AppointmentTypeRepository().GetByID(ctx, evalCtx.AppointmentTypeID)
	if err != nil {
		return nil, 0, err
	}
	schedules, err := a.db.BaseScheduleRepository().ListByRuleSet(ctx, ruleSetID)
	if err != nil {
		return nil, 0, err
	}
	if evalCtx.LocationID != nil {
		filtered := schedules[:0:0]
		for _, s := range schedules {
			if s.LocationID == *evalCtx.LocationID {
				filtered = append(filtered, s)
			}
		}
		schedules = filtered
	}
	return schedules, time.Duration(at.DurationMinutes) * time.Minute, nil
}

// ListAvailableDates implements §6's `list_available_dates`. from and to
// are both inclusive (§4.4: "for each date d in [from, to] inclusive");
// slotgen's half-open [from, to) contract is a building-block detail, so
// the adjustment to an exclusive upper bound happens here at the public
// boundary, not in slotgen itself.
func (a *App) ListAvailableDates(ctx context.Context, practiceID uuid.UUID, ruleSetID *uuid.UUID, from, to entity.Date, evalCtx EvalContext) ([]entity.Date, error) {
	rsID, err := a.resolveRuleSetID(ctx, practiceID, ruleSetID)
	if err != nil {
		return nil, err
	}
	schedules, duration, err := a.schedulesAndDuration(ctx, rsID, evalCtx)
	if err != nil {
		return nil, err
	}
	return slotgen.ListAvailableDates(schedules, duration, from, startOfDay(to).AddDate(0, 0, 1)), nil
}

// ListSlotsForDay implements §6's `list_slots_for_day`.
func (a *App) ListSlotsForDay(ctx context.Context, practiceID uuid.UUID, ruleSetID *uuid.UUID, date entity.Date, evalCtx EvalContext) (*evaluate.Result, error) {
	rsID, err := a.resolveRuleSetID(ctx, practiceID, ruleSetID)
	if err != nil {
		return nil, err
	}
	schedules, duration, err := a.schedulesAndDuration(ctx, rsID, evalCtx)
	if err != nil {
		return nil, err
	}
	slots := slotgen.ListSlotsForDay(schedules, duration, date)
	trees, err := a.allTrees(ctx, rsID)
	if err != nil {
		return nil, err
	}
	counter := evaluate.NewCounter(a.db.AppointmentRepository())
	return evaluate.Evaluate(ctx, practiceID, trees, slots, counter, evalContextFor(evalCtx, a.db.PractitionerRepository()))
}

// ListAvailableSlots implements §6's `list_available_slots`, the
// dateRange-wide counterpart to ListSlotsForDay. from and to are both
// inclusive, matching ListAvailableDates.
func (a *App) ListAvailableSlots(ctx context.Context, practiceID uuid.UUID, ruleSetID *uuid.UUID, from, to entity.Date, evalCtx EvalContext) (*evaluate.Result, error) {
	rsID, err := a.resolveRuleSetID(ctx, practiceID, ruleSetID)
	if err != nil {
		return nil, err
	}
	schedules, duration, err := a.schedulesAndDuration(ctx, rsID, evalCtx)
	if err != nil {
		return nil, err
	}
	trees, err := a.allTrees(ctx, rsID)
	if err != nil {
		return nil, err
	}
	counter := evaluate.NewCounter(a.db.AppointmentRepository())
	ec := evalContextFor(evalCtx, a.db.PractitionerRepository())

	toExclusive := startOfDay(to).AddDate(0, 0, 1)
	agg := &evaluate.Result{}
	for day := startOfDay(from); day.Before(toExclusive); day = day.AddDate(0, 0, 1) {
		slots := slotgen.ListSlotsForDay(schedules, duration, day)
		if len(slots) == 0 {
			continue
		}
		res, err := evaluate.Evaluate(ctx, practiceID, trees, slots, counter, ec)
		if err != nil {
			return nil, err
		}
		agg.Slots = append(agg.Slots, res.Slots...)
		agg.Log = append(agg.Log, res.Log...)
	}
	return agg, nil
}

// evalContextFor adapts the API-facing EvalContext into the evaluate
// package's Context, wiring in the practitioner lookup PRACTITIONER_TAG
// conditions need.
func evalContextFor(evalCtx EvalContext, practitioners repository.PractitionerRepository) evaluate.Context {
	return evaluate.Context{
		AppointmentTypeID: evalCtx.AppointmentTypeID,
		PatientIsNew:      evalCtx.PatientIsNew,
		IsSimulation:      evalCtx.IsSimulation,
		Practitioners:     practitioners,
	}
}

func startOfDay(d entity.Date) time.Time {
	t := d.In(slotgen.PracticeLocation)
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, slotgen.PracticeLocation)
}
