package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // Driver do Postgres
	_ "github.com/mattn/go-sqlite3" // Driver SQLite (dev local e testes)
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(driver, connString string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("driver de banco não suportado: %q", driver)
	}

	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// SQLite em memória: cada conexão nova seria um banco vazio
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS clientes (
	id UUID PRIMARY KEY,
	whatsapp_id TEXT NOT NULL UNIQUE,
	nome TEXT NULL,
	status_crm TEXT NOT NULL DEFAULT 'novo'
		CHECK (status_crm IN ('novo', 'em_contato', 'qualificado', 'convertido', 'perdido')),
	stage TEXT NOT NULL DEFAULT 'INTRO',
	trava BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	qualificado BOOLEAN NOT NULL DEFAULT FALSE,
	last_interaction_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	metadata JSONB NULL
);

CREATE INDEX IF NOT EXISTS idx_clientes_board ON clientes (is_active, status_crm, last_interaction_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS clientes (
	id TEXT PRIMARY KEY,
	whatsapp_id TEXT NOT NULL UNIQUE,
	nome TEXT NULL,
	status_crm TEXT NOT NULL DEFAULT 'novo'
		CHECK (status_crm IN ('novo', 'em_contato', 'qualificado', 'convertido', 'perdido')),
	stage TEXT NOT NULL DEFAULT 'INTRO',
	trava BOOLEAN NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	qualificado BOOLEAN NOT NULL DEFAULT 0,
	last_interaction_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	metadata TEXT NULL
);

CREATE INDEX IF NOT EXISTS idx_clientes_board ON clientes (is_active, status_crm, last_interaction_at DESC);
`

// Migrate cria a tabela de clientes se ainda não existir.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := postgresSchema
	if driver == DriverSQLite {
		schema = sqliteSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("erro ao aplicar schema: %w", err)
	}
	return nil
}
