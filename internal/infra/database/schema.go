package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Commission is NUMERIC on postgres and whole cents on sqlite, which has no exact decimal
// type. amountArg and amountColumn convert at the boundary.
var schemas = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS leads (
			id               BIGSERIAL PRIMARY KEY,
			company_name     TEXT NOT NULL,
			contact_name     TEXT NOT NULL,
			phone            TEXT NOT NULL,
			email            TEXT NOT NULL,
			province         TEXT NOT NULL,
			city             TEXT NOT NULL,
			signup_date      DATE NOT NULL,
			status           TEXT NOT NULL DEFAULT 'New'
				CHECK (status IN ('New', 'Contacted', 'Qualified', 'Converted', 'Lost')),
			commission       NUMERIC(18, 2) NOT NULL DEFAULT 0 CHECK (commission >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_signup_date ON leads (signup_date)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_province ON leads (province)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS leads (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			company_name     TEXT NOT NULL,
			contact_name     TEXT NOT NULL,
			phone            TEXT NOT NULL,
			email            TEXT NOT NULL,
			province         TEXT NOT NULL,
			city             TEXT NOT NULL,
			signup_date      DATE NOT NULL,
			status           TEXT NOT NULL DEFAULT 'New'
				CHECK (status IN ('New', 'Contacted', 'Qualified', 'Converted', 'Lost')),
			commission       INTEGER NOT NULL DEFAULT 0 CHECK (commission >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_signup_date ON leads (signup_date)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_province ON leads (province)`,
	},
}

// EnsureSchema creates the leads table and its indexes when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("unsupported database dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return tx.Commit()
}
