// Package helpers provides fluent test-fixture builders for the rule-engine
// entities, grounded on the teacher's tests/helpers builder pattern.
package helpers

import (
	"github.com/google/uuid"

	"github.com/johannesbremer/praxisplaner/internal/entity"
)

// PracticeBuilder builds entity.Practice fixtures with sensible defaults.
type PracticeBuilder struct {
	id   uuid.UUID
	name string
}

func NewPracticeBuilder() *PracticeBuilder {
	return &PracticeBuilder{id: uuid.New(), name: "Test Practice"}
}

func (b *PracticeBuilder) WithID(id uuid.UUID) *PracticeBuilder { b.id = id; return b }
func (b *PracticeBuilder) WithName(name string) *PracticeBuilder { b.name = name; return b }

func (b *PracticeBuilder) Build() *entity.Practice {
	return &entity.Practice{ID: b.id, Name: b.name, CreatedAt: entity.Now(), UpdatedAt: entity.Now()}
}

// RuleSetBuilder builds entity.RuleSet fixtures.
type RuleSetBuilder struct {
	id         uuid.UUID
	practiceID uuid.UUID
	version    int
	saved      bool
}

func NewRuleSetBuilder(practiceID uuid.UUID) *RuleSetBuilder {
	return &RuleSetBuilder{id: uuid.New(), practiceID: practiceID, version: 1, saved: true}
}

func (b *RuleSetBuilder) WithVersion(v int) *RuleSetBuilder { b.version = v; return b }
func (b *RuleSetBuilder) WithSaved(saved bool) *RuleSetBuilder { b.saved = saved; return b }

func (b *RuleSetBuilder) Build() *entity.RuleSet {
	return &entity.RuleSet{ID: b.id, PracticeID: b.practiceID, Version: b.version, Saved: b.saved, CreatedAt: entity.Now()}
}

// PractitionerBuilder builds entity.Practitioner fixtures.
type PractitionerBuilder struct {
	id         uuid.UUID
	practiceID uuid.UUID
	ruleSetID  uuid.UUID
	name       string
	tags       []string
}

func NewPractitionerBuilder(practiceID, ruleSetID uuid.UUID) *PractitionerBuilder {
	return &PractitionerBuilder{id: uuid.New(), practiceID: practiceID, ruleSetID: ruleSetID, name: "Dr. Default"}
}

func (b *PractitionerBuilder) WithName(name string) *PractitionerBuilder { b.name = name; return b }
func (b *PractitionerBuilder) WithTags(tags ...string) *PractitionerBuilder {
	b.tags = tags
	return b
}

func (b *PractitionerBuilder) Build() *entity.Practitioner {
	return &entity.Practitioner{ID: b.id, PracticeID: b.practiceID, RuleSetID: b.ruleSetID, Name: b.name, Tags: b.tags}
}

// LocationBuilder builds entity.Location fixtures.
type LocationBuilder struct {
	id         uuid.UUID
	practiceID uuid.UUID
	ruleSetID  uuid.UUID
	name       string
}

func NewLocationBuilder(practiceID, ruleSetID uuid.UUID) *LocationBuilder {
	return &LocationBuilder{id: uuid.New(), practiceID: practiceID, ruleSetID: ruleSetID, name: "Main Office"}
}

func (b *LocationBuilder) WithName(name string) *LocationBuilder { b.name = name; return b }

func (b *LocationBuilder) Build() *entity.Location {
	return &entity.Location{ID: b.id, PracticeID: b.practiceID, RuleSetID: b.ruleSetID, Name: b.name}
}

// AppointmentTypeBuilder builds entity.AppointmentType fixtures.
type AppointmentTypeBuilder struct {
	id                     uuid.UUID
	practiceID             uuid.UUID
	ruleSetID              uuid.UUID
	name                   string
	durationMinutes        int
	allowedPractitionerIDs []uuid.UUID
}

func NewAppointmentTypeBuilder(practiceID, ruleSetID uuid.UUID, allowedPractitionerIDs ...uuid.UUID) *AppointmentTypeBuilder {
	return &AppointmentTypeBuilder{
		id: uuid.New(), practiceID: practiceID, ruleSetID: ruleSetID,
		name: "Checkup", durationMinutes: 30, allowedPractitionerIDs: allowedPractitionerIDs,
	}
}

func (b *AppointmentTypeBuilder) WithName(name string) *AppointmentTypeBuilder { b.name = name; return b }
func (b *AppointmentTypeBuilder) WithDurationMinutes(d int) *AppointmentTypeBuilder {
	b.durationMinutes = d
	return b
}

func (b *AppointmentTypeBuilder) Build() *entity.AppointmentType {
	return &entity.AppointmentType{
		ID: b.id, PracticeID: b.practiceID, RuleSetID: b.ruleSetID,
		Name: b.name, DurationMinutes: b.durationMinutes, AllowedPractitionerIDs: b.allowedPractitionerIDs,
	}
}

// BaseScheduleBuilder builds entity.BaseSchedule fixtures.
type BaseScheduleBuilder struct {
	id             uuid.UUID
	practiceID     uuid.UUID
	ruleSetID      uuid.UUID
	practitionerID uuid.UUID
	locationID     uuid.UUID
	dayOfWeek      int
	startTime      string
	endTime        string
	breakTimes     []entity.BreakWindow
}

func NewBaseScheduleBuilder(practiceID, ruleSetID, practitionerID, locationID uuid.UUID) *BaseScheduleBuilder {
	return &BaseScheduleBuilder{
		id: uuid.New(), practiceID: practiceID, ruleSetID: ruleSetID,
		practitionerID: practitionerID, locationID: locationID,
		dayOfWeek: 1, startTime: "09:00", endTime: "17:00",
	}
}

func (b *BaseScheduleBuilder) WithDayOfWeek(d int) *BaseScheduleBuilder { b.dayOfWeek = d; return b }
func (b *BaseScheduleBuilder) WithWindow(start, end string) *BaseScheduleBuilder {
	b.startTime, b.endTime = start, end
	return b
}
func (b *BaseScheduleBuilder) WithBreak(start, end string) *BaseScheduleBuilder {
	b.breakTimes = append(b.breakTimes, entity.BreakWindow{Start: start, End: end})
	return b
}

func (b *BaseScheduleBuilder) Build() *entity.BaseSchedule {
	return &entity.BaseSchedule{
		ID: b.id, PracticeID: b.practiceID, RuleSetID: b.ruleSetID,
		PractitionerID: b.practitionerID, LocationID: b.locationID,
		DayOfWeek: b.dayOfWeek, StartTime: b.startTime, EndTime: b.endTime, BreakTimes: b.breakTimes,
	}
}

// RuleNodeBuilder builds entity.RuleNode fixtures. Defaults to a disabled,
// non-root CONDITION leaf; call WithRoot to make it a root.
type RuleNodeBuilder struct {
	id            uuid.UUID
	practiceID    uuid.UUID
	ruleSetID     uuid.UUID
	parentID      *uuid.UUID
	isRoot        bool
	enabled       bool
	nodeType      entity.NodeType
	conditionType entity.ConditionType
	operator      entity.Operator
	valueIDs      []string
	valueNumber   *float64
	scope         entity.Scope
}

func NewRuleNodeBuilder(practiceID, ruleSetID uuid.UUID) *RuleNodeBuilder {
	return &RuleNodeBuilder{
		id: uuid.New(), practiceID: practiceID, ruleSetID: ruleSetID,
		nodeType: entity.NodeTypeCONDITION, scope: entity.ScopeGlobal,
	}
}

func (b *RuleNodeBuilder) WithRoot(enabled bool) *RuleNodeBuilder {
	b.isRoot, b.enabled = true, enabled
	return b
}
func (b *RuleNodeBuilder) WithParent(parentID uuid.UUID) *RuleNodeBuilder {
	b.parentID = &parentID
	return b
}
func (b *RuleNodeBuilder) WithNodeType(t entity.NodeType) *RuleNodeBuilder { b.nodeType = t; return b }
func (b *RuleNodeBuilder) WithCondition(ct entity.ConditionType, op entity.Operator, ids ...string) *RuleNodeBuilder {
	b.conditionType, b.operator, b.valueIDs = ct, op, ids
	return b
}
func (b *RuleNodeBuilder) WithValueNumber(n float64) *RuleNodeBuilder { b.valueNumber = &n; return b }

func (b *RuleNodeBuilder) Build() *entity.RuleNode {
	return &entity.RuleNode{
		ID: b.id, PracticeID: b.practiceID, RuleSetID: b.ruleSetID,
		ParentConditionID: b.parentID, IsRoot: b.isRoot, Enabled: b.enabled,
		NodeType: b.nodeType, ConditionType: b.conditionType, Operator: b.operator,
		ValueIDs: b.valueIDs, ValueNumber: b.valueNumber, Scope: b.scope,
		CreatedAt: entity.Now(), LastModified: entity.Now(),
	}
}

// AppointmentBuilder builds entity.Appointment fixtures for aggregate
// condition tests (CONCURRENT_COUNT / DAILY_CAPACITY).
type AppointmentBuilder struct {
	appt entity.Appointment
}

func NewAppointmentBuilder(practiceID, practitionerID uuid.UUID, start, end entity.Time) *AppointmentBuilder {
	return &AppointmentBuilder{appt: entity.Appointment{
		ID: uuid.New(), PracticeID: practiceID, PractitionerID: practitionerID,
		Start: start, End: end, Status: entity.AppointmentStatusBooked,
	}}
}

func (b *AppointmentBuilder) WithAppointmentType(id uuid.UUID) *AppointmentBuilder {
	b.appt.AppointmentTypeID = &id
	return b
}
func (b *AppointmentBuilder) WithStatus(s entity.AppointmentStatus) *AppointmentBuilder {
	b.appt.Status = s
	return b
}
func (b *AppointmentBuilder) WithSimulation(sim bool) *AppointmentBuilder {
	b.appt.IsSimulation = sim
	return b
}

func (b *AppointmentBuilder) Build() *entity.Appointment {
	appt := b.appt
	return &appt
}
