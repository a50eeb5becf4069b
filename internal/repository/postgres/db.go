package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/johannesbremer/praxisplaner/internal/repository"
)

// execer is the subset of *sql.DB / *sql.Tx every per-entity repo needs.
// Grounded on the teacher's ScheduleVersionRepository, which took a bare
// *sql.DB — generalized here so the same repo struct backs both the
// top-level Database and an open Transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Database is the PostgreSQL-backed repository.Database.
type Database struct {
	db *DB
}

// NewDatabase wraps an established PostgreSQL connection.
func NewDatabase(db *DB) *Database {
	return &Database{db: db}
}

func (d *Database) Close() error            { return d.db.Close() }
func (d *Database) Health(ctx context.Context) error { return d.db.Health(ctx) }

func (d *Database) PracticeRepository() repository.PracticeRepository { return &practiceRepo{d.db} }
func (d *Database) RuleSetRepository() repository.RuleSetRepository   { return &ruleSetRepo{d.db} }
func (d *Database) PractitionerRepository() repository.PractitionerRepository {
	return &practitionerRepo{d.db}
}
func (d *Database) LocationRepository() repository.LocationRepository { return &locationRepo{d.db} }
func (d *Database) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return &appointmentTypeRepo{d.db}
}
func (d *Database) BaseScheduleRepository() repository.BaseScheduleRepository {
	return &baseScheduleRepo{d.db}
}
func (d *Database) RuleNodeRepository() repository.RuleNodeRepository { return &ruleNodeRepo{d.db} }
func (d *Database) AppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepo{d.db}
}

// tx wraps a *sql.Tx as a repository.Transaction. Begun with
// sql.LevelSerializable so concurrent forks of the same practice's draft
// can't race the way they could under the default read-committed isolation
// — the teacher's repositories never needed this since schedule versions
// were created one at a time by a single staffing coordinator; the
// multi-editor case this spec allows for makes it load-bearing here.
type tx struct {
	t *sql.Tx
}

func (d *Database) BeginTx(ctx context.Context) (repository.Transaction, error) {
	t, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("begin postgres tx: %w", err)
	}
	return &tx{t: t}, nil
}

func (t *tx) Commit() error   { return t.t.Commit() }
func (t *tx) Rollback() error { return t.t.Rollback() }

func (t *tx) PracticeRepository() repository.PracticeRepository { return &practiceRepo{t.t} }
func (t *tx) RuleSetRepository() repository.RuleSetRepository   { return &ruleSetRepo{t.t} }
func (t *tx) PractitionerRepository() repository.PractitionerRepository {
	return &practitionerRepo{t.t}
}
func (t *tx) LocationRepository() repository.LocationRepository { return &locationRepo{t.t} }
func (t *tx) AppointmentTypeRepository() repository.AppointmentTypeRepository {
	return &appointmentTypeRepo{t.t}
}
func (t *tx) BaseScheduleRepository() repository.BaseScheduleRepository {
	return &baseScheduleRepo{t.t}
}
func (t *tx) RuleNodeRepository() repository.RuleNodeRepository { return &ruleNodeRepo{t.t} }
func (t *tx) AppointmentRepository() repository.AppointmentRepository {
	return &appointmentRepo{t.t}
}
