package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

var placeholderRegex = regexp.MustCompile(`\$\d+`)

// Dialect adapts the Postgres-flavoured queries of this package to the
// configured driver.
type Dialect struct {
	Driver string
}

// Rebind rewrites $n placeholders for drivers that only accept "?".
// Every query in this package uses its placeholders once, in order.
func (d Dialect) Rebind(query string) string {
	if d.Driver != config.DriverSQLite {
		return query
	}
	return placeholderRegex.ReplaceAllString(query, "?")
}

func (d Dialect) driverName() string {
	if d.Driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Open connects to the configured SQL database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect := Dialect{Driver: cfg.Driver}

	db, err := sql.Open(dialect.driverName(), cfg.ConnectionString())
	if err != nil {
		return nil, dialect, errors.Wrap(err, "opening database")
	}

	if cfg.Driver == config.DriverSQLite {
		// A single connection keeps :memory: databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, dialect, errors.Wrap(err, "pinging database")
	}

	logging.Info("Database connected", logging.Fields{
		"driver": cfg.Driver,
		"host":   cfg.Host,
		"name":   cfg.Name,
	})

	return db, dialect, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
