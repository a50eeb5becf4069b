// Package repository defines the storage-layer contracts the core depends
// on. Concrete backends (memory, postgres) implement these interfaces; the
// core never imports a backend package directly.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
)

// Database provides access to all repositories and transaction control.
type Database interface {
	BeginTx(ctx context.Context) (Transaction, error)

	PracticeRepository() PracticeRepository
	RuleSetRepository() RuleSetRepository
	PractitionerRepository() PractitionerRepository
	LocationRepository() LocationRepository
	AppointmentTypeRepository() AppointmentTypeRepository
	BaseScheduleRepository() BaseScheduleRepository
	RuleNodeRepository() RuleNodeRepository
	AppointmentRepository() AppointmentRepository

	Close() error
	Health(ctx context.Context) error
}

// Transaction mirrors Database's repository accessors, scoped to one
// transaction (§4.1 "the entire sequence is one atomic transaction").
type Transaction interface {
	Commit() error
	Rollback() error

	PracticeRepository() PracticeRepository
	RuleSetRepository() RuleSetRepository
	PractitionerRepository() PractitionerRepository
	LocationRepository() LocationRepository
	AppointmentTypeRepository() AppointmentTypeRepository
	BaseScheduleRepository() BaseScheduleRepository
	RuleNodeRepository() RuleNodeRepository
	AppointmentRepository() AppointmentRepository
}

// PracticeRepository defines data access operations for practices.
type PracticeRepository interface {
	Create(ctx context.Context, practice *entity.Practice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Practice, error)
	Update(ctx context.Context, practice *entity.Practice) error
	SetActiveRuleSet(ctx context.Context, practiceID uuid.UUID, ruleSetID uuid.UUID) error
}

// RuleSetRepository defines data access operations for the RuleSet DAG.
type RuleSetRepository interface {
	Create(ctx context.Context, ruleSet *entity.RuleSet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleSet, error)
	GetDraft(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error)
	Update(ctx context.Context, ruleSet *entity.RuleSet) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error)
	ListSavedByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error)
}

// PractitionerRepository defines data access operations for practitioners.
type PractitionerRepository interface {
	Create(ctx context.Context, p *entity.Practitioner) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error)
	GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Practitioner, error)
	GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.Practitioner, error)
	ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Practitioner, error)
	Update(ctx context.Context, p *entity.Practitioner) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error
}

// LocationRepository defines data access operations for locations.
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)
	GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Location, error)
	GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.Location, error)
	ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Location, error)
	Update(ctx context.Context, l *entity.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error
}

// AppointmentTypeRepository defines data access operations for appointment types.
type AppointmentTypeRepository interface {
	Create(ctx context.Context, a *entity.AppointmentType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentType, error)
	GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.AppointmentType, error)
	GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.AppointmentType, error)
	ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.AppointmentType, error)
	Update(ctx context.Context, a *entity.AppointmentType) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error
}

// BaseScheduleRepository defines data access operations for base schedules.
type BaseScheduleRepository interface {
	Create(ctx context.Context, b *entity.BaseSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BaseSchedule, error)
	GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.BaseSchedule, error)
	ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.BaseSchedule, error)
	Update(ctx context.Context, b *entity.BaseSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error
}

// RuleNodeRepository defines data access operations for the condition tree.
type RuleNodeRepository interface {
	Create(ctx context.Context, n *entity.RuleNode) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleNode, error)
	GetByParentID(ctx context.Context, ruleSetID uuid.UUID, parentID uuid.UUID) (*entity.RuleNode, error)
	// ListChildren returns the direct children of parentID (nil for roots)
	// ordered by ChildOrder.
	ListChildren(ctx context.Context, ruleSetID uuid.UUID, parentID *uuid.UUID) ([]*entity.RuleNode, error)
	// ListRoots returns every root node (IsRoot=true) in the rule set,
	// ordered by (createdAt ascending, id ascending) per §4.5.
	ListRoots(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error)
	ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error)
	Update(ctx context.Context, n *entity.RuleNode) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error
}

// AppointmentRepository defines read access to appointments, consulted only
// by aggregate conditions (CONCURRENT_COUNT, DAILY_CAPACITY).
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	// ListOverlapping returns non-cancelled appointments for practiceID whose
	// [Start,End) interval overlaps [from,to).
	ListOverlapping(ctx context.Context, practiceID uuid.UUID, from, to entity.Time) ([]*entity.Appointment, error)
	// ListOnDate returns non-cancelled appointments for practiceID whose
	// Start falls on the given practice-local calendar date.
	ListOnDate(ctx context.Context, practiceID uuid.UUID, date entity.Date) ([]*entity.Appointment, error)
}

// NotFoundError represents a record not found error.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.ResourceType + " " + e.ResourceID
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// ValidationError represents a storage-layer validation error (field-level,
// distinct from the condition-tree entity.CoreError{Kind: ValidationError}).
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
