package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestHelper starts a disposable Postgres container and applies the
// schema our repositories expect.
type PostgresTestHelper struct {
	db        *sql.DB
	container testcontainers.Container
	ctx       context.Context
}

func NewPostgresTestHelper(ctx context.Context, t *testing.T) *PostgresTestHelper {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "praxisplaner_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/praxisplaner_test?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, createTestTables(ctx, db))

	return &PostgresTestHelper{db: db, container: container, ctx: ctx}
}

func (h *PostgresTestHelper) Close(t *testing.T) {
	t.Helper()
	if err := h.db.Close(); err != nil {
		t.Logf("warning: close database: %v", err)
	}
	if err := h.container.Terminate(h.ctx); err != nil {
		t.Logf("warning: terminate container: %v", err)
	}
}

func (h *PostgresTestHelper) DB() *sql.DB { return h.db }

func (h *PostgresTestHelper) ClearTables(ctx context.Context, t *testing.T) {
	t.Helper()
	tables := []string{
		"appointments",
		"rule_nodes",
		"base_schedules",
		"appointment_types",
		"locations",
		"practitioners",
		"rule_sets",
		"practices",
	}
	for _, table := range tables {
		if _, err := h.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("warning: truncate %s: %v", table, err)
		}
	}
}

func createTestTables(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS practices (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		current_active_rule_set_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS rule_sets (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		version INTEGER NOT NULL,
		saved BOOLEAN NOT NULL DEFAULT false,
		parent_version INTEGER,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS practitioners (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		rule_set_id UUID NOT NULL REFERENCES rule_sets(id),
		parent_id UUID,
		name VARCHAR(255) NOT NULL,
		tags TEXT[] DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		rule_set_id UUID NOT NULL REFERENCES rule_sets(id),
		parent_id UUID,
		name VARCHAR(255) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS appointment_types (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		rule_set_id UUID NOT NULL REFERENCES rule_sets(id),
		parent_id UUID,
		name VARCHAR(255) NOT NULL,
		duration_minutes INTEGER NOT NULL,
		allowed_practitioner_ids TEXT[] DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS base_schedules (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		rule_set_id UUID NOT NULL REFERENCES rule_sets(id),
		parent_id UUID,
		practitioner_id UUID NOT NULL,
		location_id UUID NOT NULL,
		day_of_week INTEGER NOT NULL,
		start_time VARCHAR(5) NOT NULL,
		end_time VARCHAR(5) NOT NULL,
		break_times JSONB
	);

	CREATE TABLE IF NOT EXISTS rule_nodes (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		rule_set_id UUID NOT NULL REFERENCES rule_sets(id),
		parent_condition_id UUID,
		child_order INTEGER NOT NULL DEFAULT 0,
		is_root BOOLEAN NOT NULL DEFAULT false,
		copy_from_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_modified TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		enabled BOOLEAN NOT NULL DEFAULT true,
		node_type VARCHAR(20) NOT NULL,
		condition_type VARCHAR(50) NOT NULL DEFAULT '',
		operator VARCHAR(20) NOT NULL DEFAULT '',
		value_ids TEXT[] DEFAULT '{}',
		value_number DOUBLE PRECISION,
		scope VARCHAR(20) NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		practice_id UUID NOT NULL REFERENCES practices(id),
		practitioner_id UUID NOT NULL,
		location_id UUID,
		appointment_type_id UUID,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		status VARCHAR(20) NOT NULL,
		is_simulation BOOLEAN NOT NULL DEFAULT false
	);

	CREATE INDEX IF NOT EXISTS idx_practitioners_rule_set ON practitioners(rule_set_id);
	CREATE INDEX IF NOT EXISTS idx_locations_rule_set ON locations(rule_set_id);
	CREATE INDEX IF NOT EXISTS idx_appointment_types_rule_set ON appointment_types(rule_set_id);
	CREATE INDEX IF NOT EXISTS idx_base_schedules_rule_set ON base_schedules(rule_set_id);
	CREATE INDEX IF NOT EXISTS idx_rule_nodes_rule_set ON rule_nodes(rule_set_id);
	CREATE INDEX IF NOT EXISTS idx_rule_nodes_parent ON rule_nodes(parent_condition_id);
	CREATE INDEX IF NOT EXISTS idx_appointments_practice_window ON appointments(practice_id, start_time, end_time);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
