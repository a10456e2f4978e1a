package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS contactos (
		id             SERIAL PRIMARY KEY,
		nombre         VARCHAR(255) NOT NULL,
		email          VARCHAR(255) NOT NULL,
		telefono       VARCHAR(20),
		mensaje        TEXT NOT NULL,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS facturas (
		id              SERIAL PRIMARY KEY,
		nombre_original VARCHAR(255) NOT NULL,
		nombre_archivo  VARCHAR(255) NOT NULL UNIQUE,
		content_type    VARCHAR(100) NOT NULL,
		tamano          BIGINT NOT NULL,
		ruta            VARCHAR(512) NOT NULL,
		fecha_subida    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS citas (
		id             SERIAL PRIMARY KEY,
		nombre         VARCHAR(255) NOT NULL,
		email          VARCHAR(255) NOT NULL,
		telefono       VARCHAR(20),
		fecha          VARCHAR(10) NOT NULL,
		hora           VARCHAR(5) NOT NULL,
		mensaje        TEXT,
		estado         VARCHAR(20) NOT NULL,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_citas_slot ON citas (fecha, hora) WHERE estado <> 'cancelada'`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS contactos (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre         TEXT NOT NULL,
		email          TEXT NOT NULL,
		telefono       TEXT,
		mensaje        TEXT NOT NULL,
		fecha_creacion DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS facturas (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre_original TEXT NOT NULL,
		nombre_archivo  TEXT NOT NULL UNIQUE,
		content_type    TEXT NOT NULL,
		tamano          INTEGER NOT NULL,
		ruta            TEXT NOT NULL,
		fecha_subida    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS citas (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre         TEXT NOT NULL,
		email          TEXT NOT NULL,
		telefono       TEXT,
		fecha          TEXT NOT NULL,
		hora           TEXT NOT NULL,
		mensaje        TEXT,
		estado         TEXT NOT NULL,
		fecha_creacion DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_citas_slot ON citas (fecha, hora) WHERE estado <> 'cancelada'`,
}

var tables = []string{"citas", "facturas", "contactos"}

// CreateSchema creates every table used by the service if missing.
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts := postgresSchema
	if dialect.Driver == config.DriverSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "creating schema")
		}
	}

	logging.Info("Schema ready", logging.Fields{"driver": dialect.Driver})
	return nil
}

// DropSchema drops every table used by the service.
func DropSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return errors.Wrapf(err, "dropping table %s", table)
		}
	}

	logging.Info("Schema dropped", logging.Fields{"tables": tables})
	return nil
}
