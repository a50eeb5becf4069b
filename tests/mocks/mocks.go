// Package mocks provides map-backed mock repositories with injectable
// errors, grounded on the teacher's tests/mocks package, so service-layer
// error paths (repository failures mid-draft) can be exercised without a
// real backend.
package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/johannesbremer/praxisplaner/internal/entity"
	"github.com/johannesbremer/praxisplaner/internal/repository"
)

// MockPracticeRepository is a mock implementation of repository.PracticeRepository.
type MockPracticeRepository struct {
	mu        sync.RWMutex
	practices map[uuid.UUID]*entity.Practice
	getErr    error
	saveErr   error
	updateErr error
}

func NewMockPracticeRepository() *MockPracticeRepository {
	return &MockPracticeRepository{practices: make(map[uuid.UUID]*entity.Practice)}
}

func (m *MockPracticeRepository) Create(ctx context.Context, p *entity.Practice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.practices[p.ID] = p
	return nil
}

func (m *MockPracticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.practices[id]; ok {
		return p, nil
	}
	return nil, &repository.NotFoundError{ResourceType: "Practice", ResourceID: id.String()}
}

func (m *MockPracticeRepository) Update(ctx context.Context, p *entity.Practice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.practices[p.ID] = p
	return nil
}

func (m *MockPracticeRepository) SetActiveRuleSet(ctx context.Context, practiceID, ruleSetID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if p, ok := m.practices[practiceID]; ok {
		rs := ruleSetID
		p.CurrentActiveRuleSetID = &rs
	}
	return nil
}

func (m *MockPracticeRepository) SetGetError(err error)    { m.mu.Lock(); defer m.mu.Unlock(); m.getErr = err }
func (m *MockPracticeRepository) SetSaveError(err error)   { m.mu.Lock(); defer m.mu.Unlock(); m.saveErr = err }
func (m *MockPracticeRepository) SetUpdateError(err error) { m.mu.Lock(); defer m.mu.Unlock(); m.updateErr = err }

func (m *MockPracticeRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.practices)
}

func (m *MockPracticeRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.practices = make(map[uuid.UUID]*entity.Practice)
}

// MockRuleSetRepository is a mock implementation of repository.RuleSetRepository.
type MockRuleSetRepository struct {
	mu        sync.RWMutex
	ruleSets  map[uuid.UUID]*entity.RuleSet
	getErr    error
	saveErr   error
	updateErr error
	deleteErr error
}

func NewMockRuleSetRepository() *MockRuleSetRepository {
	return &MockRuleSetRepository{ruleSets: make(map[uuid.UUID]*entity.RuleSet)}
}

func (m *MockRuleSetRepository) Create(ctx context.Context, rs *entity.RuleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ruleSets[rs.ID] = rs
	return nil
}

func (m *MockRuleSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if rs, ok := m.ruleSets[id]; ok {
		return rs, nil
	}
	return nil, &repository.NotFoundError{ResourceType: "RuleSet", ResourceID: id.String()}
}

func (m *MockRuleSetRepository) GetDraft(ctx context.Context, practiceID uuid.UUID) (*entity.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, rs := range m.ruleSets {
		if rs.PracticeID == practiceID && !rs.Saved {
			return rs, nil
		}
	}
	return nil, nil
}

func (m *MockRuleSetRepository) Update(ctx context.Context, rs *entity.RuleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.ruleSets[rs.ID] = rs
	return nil
}

func (m *MockRuleSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.ruleSets, id)
	return nil
}

func (m *MockRuleSetRepository) ListByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*entity.RuleSet
	for _, rs := range m.ruleSets {
		if rs.PracticeID == practiceID {
			out = append(out, rs)
		}
	}
	return out, nil
}

func (m *MockRuleSetRepository) ListSavedByPractice(ctx context.Context, practiceID uuid.UUID) ([]*entity.RuleSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*entity.RuleSet
	for _, rs := range m.ruleSets {
		if rs.PracticeID == practiceID && rs.Saved {
			out = append(out, rs)
		}
	}
	return out, nil
}

func (m *MockRuleSetRepository) SetGetError(err error)    { m.mu.Lock(); defer m.mu.Unlock(); m.getErr = err }
func (m *MockRuleSetRepository) SetSaveError(err error)   { m.mu.Lock(); defer m.mu.Unlock(); m.saveErr = err }
func (m *MockRuleSetRepository) SetUpdateError(err error) { m.mu.Lock(); defer m.mu.Unlock(); m.updateErr = err }
func (m *MockRuleSetRepository) SetDeleteError(err error) { m.mu.Lock(); defer m.mu.Unlock(); m.deleteErr = err }

func (m *MockRuleSetRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ruleSets)
}

func (m *MockRuleSetRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ruleSets = make(map[uuid.UUID]*entity.RuleSet)
}

// MockPractitionerRepository is a mock implementation of repository.PractitionerRepository.
type MockPractitionerRepository struct {
	mu           sync.RWMutex
	practitioners map[uuid.UUID]*entity.Practitioner
	getErr       error
	saveErr      error
	updateErr    error
	deleteErr    error
}

func NewMockPractitionerRepository() *MockPractitionerRepository {
	return &MockPractitionerRepository{practitioners: make(map[uuid.UUID]*entity.Practitioner)}
}

func (m *MockPractitionerRepository) Create(ctx context.Context, p *entity.Practitioner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.practitioners[p.ID] = p
	return nil
}

func (m *MockPractitionerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Practitioner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.practitioners[id]; ok {
		return p, nil
	}
	return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: id.String()}
}

func (m *MockPractitionerRepository) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Practitioner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.practitioners {
		if p.RuleSetID == ruleSetID && p.Name == name {
			return p, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: name}
}

func (m *MockPractitionerRepository) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.Practitioner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.practitioners {
		if p.RuleSetID == ruleSetID && p.ParentID != nil && *p.ParentID == parentID {
			return p, nil
		}
	}
	return nil, &repository.NotFoundError{ResourceType: "Practitioner", ResourceID: parentID.String()}
}

func (m *MockPractitionerRepository) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Practitioner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*entity.Practitioner
	for _, p := range m.practitioners {
		if p.RuleSetID == ruleSetID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockPractitionerRepository) Update(ctx context.Context, p *entity.Practitioner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.practitioners[p.ID] = p
	return nil
}

func (m *MockPractitionerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.practitioners, id)
	return nil
}

func (m *MockPractitionerRepository) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for id, p := range m.practitioners {
		if p.RuleSetID == ruleSetID {
			delete(m.practitioners, id)
		}
	}
	return nil
}

func (m *MockPractitionerRepository) SetGetError(err error)    { m.mu.Lock(); defer m.mu.Unlock(); m.getErr = err }
func (m *MockPractitionerRepository) SetSaveError(err error)   { m.mu.Lock(); defer m.mu.Unlock(); m.saveErr = err }
func (m *MockPractitionerRepository) SetUpdateError(err error) { m.mu.Lock(); defer m.mu.Unlock(); m.updateErr = err }
func (m *MockPractitionerRepository) SetDeleteError(err error) { m.mu.Lock(); defer m.mu.Unlock(); m.deleteErr = err }

func (m *MockPractitionerRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.practitioners)
}

func (m *MockPractitionerRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.practitioners = make(map[uuid.UUID]*entity.Practitioner)
}

// emptyLocationRepository, emptyAppointmentTypeRepository,
// emptyBaseScheduleRepository, emptyRuleNodeRepository and
// emptyAppointmentRepository back the five repositories the
// draft/save error-path tests in tests/mocks and internal/service do not
// exercise directly; remap.DeepCopy still walks all but the appointment
// repository on every fork.
// They always report an empty rule set rather than returning a nil
// repository.Database accessor, which would panic the moment DeepCopy calls
// ListByRuleSet/ListRoots on it.
type emptyLocationRepository struct{}

func (emptyLocationRepository) Create(ctx context.Context, l *entity.Location) error { return nil }
func (emptyLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: id.String()}
}
func (emptyLocationRepository) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.Location, error) {
	return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: name}
}
func (emptyLocationRepository) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.Location, error) {
	return nil, &repository.NotFoundError{ResourceType: "Location", ResourceID: parentID.String()}
}
func (emptyLocationRepository) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.Location, error) {
	return nil, nil
}
func (emptyLocationRepository) Update(ctx context.Context, l *entity.Location) error { return nil }
func (emptyLocationRepository) Delete(ctx context.Context, id uuid.UUID) error       { return nil }
func (emptyLocationRepository) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	return nil
}

type emptyAppointmentTypeRepository struct{}

func (emptyAppointmentTypeRepository) Create(ctx context.Context, a *entity.AppointmentType) error {
	return nil
}
func (emptyAppointmentTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentType, error) {
	return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: id.String()}
}
func (emptyAppointmentTypeRepository) GetByName(ctx context.Context, ruleSetID uuid.UUID, name string) (*entity.AppointmentType, error) {
	return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: name}
}
func (emptyAppointmentTypeRepository) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.AppointmentType, error) {
	return nil, &repository.NotFoundError{ResourceType: "AppointmentType", ResourceID: parentID.String()}
}
func (emptyAppointmentTypeRepository) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.AppointmentType, error) {
	return nil, nil
}
func (emptyAppointmentTypeRepository) Update(ctx context.Context, a *entity.AppointmentType) error {
	return nil
}
func (emptyAppointmentTypeRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (emptyAppointmentTypeRepository) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	return nil
}

type emptyBaseScheduleRepository struct{}

func (emptyBaseScheduleRepository) Create(ctx context.Context, b *entity.BaseSchedule) error {
	return nil
}
func (emptyBaseScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BaseSchedule, error) {
	return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: id.String()}
}
func (emptyBaseScheduleRepository) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.BaseSchedule, error) {
	return nil, &repository.NotFoundError{ResourceType: "BaseSchedule", ResourceID: parentID.String()}
}
func (emptyBaseScheduleRepository) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.BaseSchedule, error) {
	return nil, nil
}
func (emptyBaseScheduleRepository) Update(ctx context.Context, b *entity.BaseSchedule) error {
	return nil
}
func (emptyBaseScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (emptyBaseScheduleRepository) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	return nil
}

type emptyRuleNodeRepository struct{}

func (emptyRuleNodeRepository) Create(ctx context.Context, n *entity.RuleNode) error { return nil }
func (emptyRuleNodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RuleNode, error) {
	return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: id.String()}
}
func (emptyRuleNodeRepository) GetByParentID(ctx context.Context, ruleSetID, parentID uuid.UUID) (*entity.RuleNode, error) {
	return nil, &repository.NotFoundError{ResourceType: "RuleNode", ResourceID: parentID.String()}
}
func (emptyRuleNodeRepository) ListChildren(ctx context.Context, ruleSetID uuid.UUID, parentID *uuid.UUID) ([]*entity.RuleNode, error) {
	return nil, nil
}
func (emptyRuleNodeRepository) ListRoots(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	return nil, nil
}
func (emptyRuleNodeRepository) ListByRuleSet(ctx context.Context, ruleSetID uuid.UUID) ([]*entity.RuleNode, error) {
	return nil, nil
}
func (emptyRuleNodeRepository) Update(ctx context.Context, n *entity.RuleNode) error { return nil }
func (emptyRuleNodeRepository) Delete(ctx context.Context, id uuid.UUID) error       { return nil }
func (emptyRuleNodeRepository) DeleteByRuleSet(ctx context.Context, ruleSetID uuid.UUID) error {
	return nil
}

type emptyAppointmentRepository struct{}

func (emptyAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return nil, &repository.NotFoundError{ResourceType: "Appointment", ResourceID: id.String()}
}
func (emptyAppointmentRepository) ListOverlapping(ctx context.Context, practiceID uuid.UUID, from, to entity.Time) ([]*entity.Appointment, error) {
	return nil, nil
}
func (emptyAppointmentRepository) ListOnDate(ctx context.Context, practiceID uuid.UUID, date entity.Date) ([]*entity.Appointment, error) {
	return nil, nil
}

// MockDatabase wires the mock repositories behind repository.Database, so
// the service layer's draft/save/error-wrapping paths can be exercised
// against a failure-injectable backend instead of memory.Database. Only the
// repositories exercised by those paths (practice, rule set, practitioner)
// are map-backed with injectable errors; the rest report an always-empty
// rule set (see the emptyXRepository types above) so remap.DeepCopy can run
// to completion on a fork without needing real fixtures.
type MockDatabase struct {
	mu           sync.Mutex
	Practice     *MockPracticeRepository
	RuleSet      *MockRuleSetRepository
	Practitioner *MockPractitionerRepository
	beginTxErr   error
	commitErr    error
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		Practice:     NewMockPracticeRepository(),
		RuleSet:      NewMockRuleSetRepository(),
		Practitioner: NewMockPractitionerRepository(),
	}
}

func (d *MockDatabase) SetBeginTxError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.beginTxErr = err
}

func (d *MockDatabase) SetCommitError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commitErr = err
}

func (d *MockDatabase) BeginTx(ctx context.Context) (repository.Transaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.beginTxErr != nil {
		return nil, d.beginTxErr
	}
	return &mockTransaction{db: d, commitErr: d.commitErr}, nil
}

func (d *MockDatabase) PracticeRepository() repository.PracticeRepository         { return d.Practice }
func (d *MockDatabase) RuleSetRepository() repository.RuleSetRepository           { return d.RuleSet }
func (d *MockDatabase) PractitionerRepository() repository.PractitionerRepository { return d.Practitioner }
func (d *MockDatabase) LocationRepository() repository.LocationRepository {
	return emptyLocationRepository{}
}
func (d *MockDatabase) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return emptyAppointmentTypeRepository{}
}
func (d *MockDatabase) BaseScheduleRepository() repository.BaseScheduleRepository {
	return emptyBaseScheduleRepository{}
}
func (d *MockDatabase) RuleNodeRepository() repository.RuleNodeRepository {
	return emptyRuleNodeRepository{}
}
func (d *MockDatabase) AppointmentRepository() repository.AppointmentRepository {
	return emptyAppointmentRepository{}
}

func (d *MockDatabase) Close() error                       { return nil }
func (d *MockDatabase) Health(ctx context.Context) error    { return nil }

// mockTransaction delegates straight to MockDatabase's repositories: unlike
// the real backends there is no isolated snapshot, since nothing in the
// service-layer error paths this mock targets depends on rollback
// visibility (that is covered by the postgres integration tests).
type mockTransaction struct {
	db        *MockDatabase
	commitErr error
	done      bool
}

func (t *mockTransaction) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.commitErr
}

func (t *mockTransaction) Rollback() error {
	t.done = true
	return nil
}

func (t *mockTransaction) PracticeRepository() repository.PracticeRepository         { return t.db.Practice }
func (t *mockTransaction) RuleSetRepository() repository.RuleSetRepository           { return t.db.RuleSet }
func (t *mockTransaction) PractitionerRepository() repository.PractitionerRepository { return t.db.Practitioner }
func (t *mockTransaction) LocationRepository() repository.LocationRepository {
	return emptyLocationRepository{}
}
func (t *mockTransaction) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return emptyAppointmentTypeRepository{}
}
func (t *mockTransaction) BaseScheduleRepository() repository.BaseScheduleRepository {
	return emptyBaseScheduleRepository{}
}
func (t *mockTransaction) RuleNodeRepository() repository.RuleNodeRepository {
	return emptyRuleNodeRepository{}
}
func (t *mockTransaction) AppointmentRepository() repository.AppointmentRepository {
	return emptyAppointmentRepository{}
}
