// Package memory is a dependency-free in-memory implementation of
// repository.Database. It backs unit tests for the §4.1/§4.2 algorithms and
// can run the whole core with no external services.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

// Store is the shared in-memory backing for all entity kinds, following the
// teacher's MemoryRepository shape (one mutex-guarded struct holding a map
// per entity kind) generalised from map[string]interface{} to typed maps.
type Store struct {
	mu sync.RWMutex

	practices     map[uuid.UUID]*entity.Practice
	ruleSets      map[uuid.UUID]*entity.RuleSet
	practitioners map[uuid.UUID]*entity.Practitioner
	locations     map[uuid.UUID]*entity.Location
	apptTypes     map[uuid.UUID]*entity.AppointmentType
	baseSchedules map[uuid.UUID]*entity.BaseSchedule
	ruleNodes     map[uuid.UUID]*entity.RuleNode
	appointments  map[uuid.UUID]*entity.Appointment
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{
		practices:     make(map[uuid.UUID]*entity.Practice),
		ruleSets:      make(map[uuid.UUID]*entity.RuleSet),
		practitioners: make(map[uuid.UUID]*entity.Practitioner),
		locations:     make(map[uuid.UUID]*entity.Location),
		apptTypes:     make(map[uuid.UUID]*entity.AppointmentType),
		baseSchedules: make(map[uuid.UUID]*entity.BaseSchedule),
		ruleNodes:     make(map[uuid.UUID]*entity.RuleNode),
		appointments:  make(map[uuid.UUID]*entity.Appointment),
	}
}

// lockable is embedded by every per-entity repository. Repositories reached
// through Database lock per call; repositories reached through an open tx
// skip locking because the tx already holds the store's write lock for its
// whole lifetime.
type lockable struct {
	store  *Store
	noLock bool
}

func (l lockable) wlock() func() {
	if l.noLock {
		return func() {}
	}
	l.store.mu.Lock()
	return l.store.mu.Unlock
}

func (l lockable) rlock() func() {
	if l.noLock {
		return func() {}
	}
	l.store.mu.RLock()
	return l.store.mu.RUnlock
}

// Database is the repository.Database implementation backed by a Store.
// Every accessor returns a repository scoped to the same Store; there is no
// per-repository state.
type Database struct {
	store *Store
}

// NewDatabase wraps a Store as a repository.Database.
func NewDatabase(store *Store) *Database {
	return &Database{store: store}
}

// Close is a no-op for the in-memory backend.
func (d *Database) Close() error { return nil }

// Health always succeeds for the in-memory backend.
func (d *Database) Health(ctx context.Context) error { return nil }

func (d *Database) PracticeRepository() repository.PracticeRepository {
	return &practiceRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) RuleSetRepository() repository.RuleSetRepository {
	return &ruleSetRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) PractitionerRepository() repository.PractitionerRepository {
	return &practitionerRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) LocationRepository() repository.LocationRepository {
	return &locationRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return &appointmentTypeRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) BaseScheduleRepository() repository.BaseScheduleRepository {
	return &baseScheduleRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) RuleNodeRepository() repository.RuleNodeRepository {
	return &ruleNodeRepo{lockable{store: d.store, noLock: false}}
}
func (d *Database) AppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepo{lockable{store: d.store, noLock: false}}
}

// SeedAppointment inserts an appointment directly, bypassing
// repository.AppointmentRepository (which is deliberately read-only, §3
// "Appointment (read-only to the core)"). Tests use this to set up fixtures
// for CONCURRENT_COUNT / DAILY_CAPACITY evaluation.
func (d *Database) SeedAppointment(a *entity.Appointment) {
	repo := &appointmentRepo{lockable{store: d.store, noLock: false}}
	unlock := repo.wlock()
	defer unlock()
	d.store.appointments[a.ID] = a
}

// tx is the repository.Transaction implementation. Because Store is a
// single mutex-guarded in-memory structure, a transaction is implemented by
// holding the store's write lock for the transaction's lifetime: this gives
// full serializability across the fork-then-deep-copy and save-draft
// sequences §5 requires, at the cost of disallowing concurrent transactions
// (acceptable for the in-memory backend; postgres uses real row/txn locks).
type tx struct {
	store *Store
	done  bool
}

// BeginTx starts a transaction by taking the store's write lock until
// Commit or Rollback is called.
func (d *Database) BeginTx(ctx context.Context) (repository.Transaction, error) {
	d.store.mu.Lock()
	return &tx{store: d.store}, nil
}

func (t *tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *tx) PracticeRepository() repository.PracticeRepository {
	return &practiceRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) RuleSetRepository() repository.RuleSetRepository {
	return &ruleSetRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) PractitionerRepository() repository.PractitionerRepository {
	return &practitionerRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) LocationRepository() repository.LocationRepository {
	return &locationRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return &appointmentTypeRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) BaseScheduleRepository() repository.BaseScheduleRepository {
	return &baseScheduleRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) RuleNodeRepository() repository.RuleNodeRepository {
	return &ruleNodeRepo{lockable{store: t.store, noLock: true}}
}
func (t *tx) AppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepo{lockable{store: t.store, noLock: true}}
}
