package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
)

const testSchema = "payroll_basis_it"

// The tables owned by the wider HRIS schema, reduced to the columns the
// payroll basis adapters touch.
const baseSchemaDDL = `
	CREATE TABLE IF NOT EXISTS companies (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS employees (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		full_name  TEXT NOT NULL,
		deleted_at TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS attendances (
		id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		company_id  UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		employee_id UUID NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		clock_in    TIMESTAMPTZ,
		clock_out   TIMESTAMPTZ,
		status      TEXT NOT NULL DEFAULT 'present'
	);
`

// TestDatabaseSetup owns a connection scoped to a private schema
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and prepares the schema.
// ok is false when no test database is configured.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	admin, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}
	_, err = admin.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE; CREATE SCHEMA %s", testSchema, testSchema))
	admin.Close()
	if err != nil {
		return nil, true, fmt.Errorf("failed to create test schema: %w", err)
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := database.NewPostgreSQLDB(ctx, dsn+sep+"search_path="+testSchema, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test schema: %w", err)
	}

	migration, err := os.ReadFile("../../../../migrations/000001_payroll_basis.up.sql")
	if err != nil {
		db.Close()
		return nil, true, fmt.Errorf("failed to read migration: %w", err)
	}
	for _, ddl := range []string{baseSchemaDDL, string(migration)} {
		if _, err := db.Exec(ctx, ddl); err != nil {
			db.Close()
			return nil, true, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables removes every row written by a test
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payroll_basis_results",
		"payroll_rules",
		"time_entries",
		"attendances",
		"employees",
		"companies",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
