package entity

import (
	"time"

	"github.com/google/uuid"
)

// Type aliases for domain IDs and temporal types
type (
	PracticeID        = uuid.UUID
	RuleSetID         = uuid.UUID
	PractitionerID    = uuid.UUID
	LocationID        = uuid.UUID
	AppointmentTypeID = uuid.UUID
	BaseScheduleID    = uuid.UUID
	RuleNodeID        = uuid.UUID
	AppointmentID     = uuid.UUID
	Date              = time.Time
	Time              = time.Time
)

// Now returns the current instant in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Practice is the root of ownership for a rule-set DAG.
type Practice struct {
	ID                     PracticeID
	Name                   string
	CurrentActiveRuleSetID *RuleSetID
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// RuleSet is one node in the per-practice version DAG (§3 RuleSet).
type RuleSet struct {
	ID            RuleSetID
	PracticeID    PracticeID
	Version       int
	Saved         bool
	ParentVersion *RuleSetID
	Description   string
	CreatedAt     time.Time
}

// Practitioner is a staff member scoped to a single rule set.
type Practitioner struct {
	ID         PractitionerID
	PracticeID PracticeID
	RuleSetID  RuleSetID
	ParentID   *PractitionerID
	Name       string
	Tags       []string
}

// Location is a physical or virtual place scoped to a single rule set.
type Location struct {
	ID         LocationID
	PracticeID PracticeID
	RuleSetID  RuleSetID
	ParentID   *LocationID
	Name       string
}

// AppointmentType describes a bookable service offered by a set of
// practitioners, scoped to a single rule set.
type AppointmentType struct {
	ID                     AppointmentTypeID
	PracticeID             PracticeID
	RuleSetID              RuleSetID
	ParentID               *AppointmentTypeID
	Name                   string
	DurationMinutes        int
	AllowedPractitionerIDs []PractitionerID
}

// BreakWindow is a sub-interval of a BaseSchedule's working window that is
// excluded from slot generation.
type BreakWindow struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// BaseSchedule is a recurring weekly working window for one practitioner at
// one location, scoped to a single rule set.
type BaseSchedule struct {
	ID             BaseScheduleID
	PracticeID     PracticeID
	RuleSetID      RuleSetID
	ParentID       *BaseScheduleID
	PractitionerID PractitionerID
	LocationID     LocationID
	DayOfWeek      int // 0-6, Sunday = 0
	StartTime      string
	EndTime        string
	BreakTimes     []BreakWindow
}

// NodeType is the closed set of condition-tree node kinds (§3 Rule topology).
type NodeType string

const (
	NodeTypeAND       NodeType = "AND"
	NodeTypeNOT       NodeType = "NOT"
	NodeTypeCONDITION NodeType = "CONDITION"
)

// ConditionType is the closed taxonomy of leaf predicates (§3 Condition taxonomy).
type ConditionType string

const (
	ConditionPractitioner    ConditionType = "PRACTITIONER"
	ConditionLocation        ConditionType = "LOCATION"
	ConditionAppointmentType ConditionType = "APPOINTMENT_TYPE"
	ConditionPractitionerTag ConditionType = "PRACTITIONER_TAG"
	ConditionClientType      ConditionType = "CLIENT_TYPE"
	ConditionDayOfWeek       ConditionType = "DAY_OF_WEEK"
	ConditionDateRange       ConditionType = "DATE_RANGE"
	ConditionTimeRange       ConditionType = "TIME_RANGE"
	ConditionDaysAhead       ConditionType = "DAYS_AHEAD"
	ConditionConcurrentCount ConditionType = "CONCURRENT_COUNT"
	ConditionDailyCapacity   ConditionType = "DAILY_CAPACITY"
)

// Operator is the closed set of comparison operators a leaf may use.
type Operator string

const (
	OpIs                 Operator = "IS"
	OpIsNot              Operator = "IS_NOT"
	OpEquals             Operator = "EQUALS"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
)

// Scope qualifies aggregate conditions (CONCURRENT_COUNT, DAILY_CAPACITY).
type Scope string

const (
	ScopePerPractitioner Scope = "per-practitioner"
	ScopeGlobal          Scope = "global"
)

// RuleNode is one node of the stored condition tree (§3 RuleNode).
//
// Every node, root or not, carries NodeType and, for CONDITION leaves, the
// condition fields. Root nodes (IsRoot=true) also carry Enabled and are
// themselves the top node of their condition tree: a root does not wrap a
// separate single child node, and a root with no NodeType is rejected by
// validation.
type RuleNode struct {
	ID                RuleNodeID
	PracticeID        PracticeID
	RuleSetID         RuleSetID
	ParentConditionID *RuleNodeID
	ChildOrder        int
	IsRoot            bool
	CopyFromID        *RuleNodeID
	CreatedAt         time.Time
	LastModified      time.Time

	// Root-only
	Enabled bool

	// Every node, roots included
	NodeType NodeType

	// Leaf-only (NodeType = CONDITION)
	ConditionType ConditionType
	Operator      Operator
	ValueIDs      []string
	ValueNumber   *float64
	Scope         Scope
}

// AppointmentStatus is the closed set of appointment lifecycle states
// relevant to the evaluator's aggregate conditions.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "BOOKED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is read-only to the core; it is consulted only by aggregate
// conditions (CONCURRENT_COUNT, DAILY_CAPACITY).
type Appointment struct {
	ID                AppointmentID
	PracticeID        PracticeID
	PractitionerID    PractitionerID
	LocationID        *LocationID
	AppointmentTypeID *AppointmentTypeID
	Start             time.Time
	End               time.Time
	Status            AppointmentStatus
	IsSimulation      bool
}

// SlotStatus is the closed set of outcomes the evaluator assigns to a slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBlocked   SlotStatus = "BLOCKED"
)

// Slot is a candidate appointment-time window (§4.4, §GLOSSARY).
type Slot struct {
	PractitionerID  PractitionerID
	LocationID      LocationID
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          SlotStatus
	BlockedByRuleID *RuleNodeID
}

// IsValidNodeType reports whether s is one of the closed NodeType values.
func IsValidNodeType(s string) bool {
	switch NodeType(s) {
	case NodeTypeAND, NodeTypeNOT, NodeTypeCONDITION:
		return true
	default:
		return false
	}
}

// IsValidConditionType reports whether s is in the closed condition taxonomy.
func IsValidConditionType(s string) bool {
	switch ConditionType(s) {
	case ConditionPractitioner, ConditionLocation, ConditionAppointmentType,
		ConditionPractitionerTag, ConditionClientType, ConditionDayOfWeek,
		ConditionDateRange, ConditionTimeRange, ConditionDaysAhead,
		ConditionConcurrentCount, ConditionDailyCapacity:
		return true
	default:
		return false
	}
}

// AllowedOperators returns the operators permitted for a condition type, per
// the §3 taxonomy table.
func AllowedOperators(ct ConditionType) []Operator {
	switch ct {
	case ConditionPractitioner, ConditionLocation, ConditionAppointmentType,
		ConditionPractitionerTag, ConditionClientType, ConditionDayOfWeek:
		return []Operator{OpIs, OpIsNot}
	case ConditionDateRange, ConditionTimeRange:
		return []Operator{OpIs}
	case ConditionDaysAhead:
		return []Operator{OpLessThanOrEqual, OpGreaterThanOrEqual}
	case ConditionConcurrentCount, ConditionDailyCapacity:
		return []Operator{OpEquals, OpLessThanOrEqual, OpGreaterThanOrEqual}
	default:
		return nil
	}
}

// ReferencesEntities reports whether a condition type's ValueIDs point at
// entity rows (and therefore must be remapped across rule sets) as opposed
// to opaque literal strings (tags, day indices, dates, times).
func ReferencesEntities(ct ConditionType) bool {
	switch ct {
	case ConditionPractitioner, ConditionLocation, ConditionAppointmentType,
		ConditionConcurrentCount, ConditionDailyCapacity:
		return true
	default:
		return false
	}
}
