package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// SQLCitaRepository implements CitaRepository on database/sql.
type SQLCitaRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *logging.Logger
}

// NewSQLCitaRepository creates a new SQL appointment repository.
func NewSQLCitaRepository(db *sql.DB, dialect Dialect) *SQLCitaRepository {
	return &SQLCitaRepository{
		db:      db,
		dialect: dialect,
		logger:  logging.NewLogger("cita-repository"),
	}
}

// Create books an appointment. A second active booking for the same slot
// fails with ErrConflict.
func (r *SQLCitaRepository) Create(ctx context.Context, req *models.CreateCitaRequest) (*models.Cita, error) {
	cita := &models.Cita{
		Nombre:        req.Nombre,
		Email:         req.Email,
		Telefono:      stringPtr(nullString(req.Telefono)),
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Mensaje:       stringPtr(nullString(req.Mensaje)),
		Estado:        models.CitaEstadoProgramada,
		FechaCreacion: now(),
	}

	query := r.dialect.Rebind(`
		INSERT INTO citas (nombre, email, telefono, fecha, hora, mensaje, estado, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		cita.Nombre,
		cita.Email,
		nullString(req.Telefono),
		cita.Fecha,
		cita.Hora,
		nullString(req.Mensaje),
		string(cita.Estado),
		cita.FechaCreacion,
	).Scan(&cita.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		r.logger.Error("Failed to create cita", logging.Fields{
			"fecha": req.Fecha,
			"hora":  req.Hora,
			"error": err.Error(),
		})
		return nil, errors.Wrap(err, "inserting cita")
	}

	r.logger.Info("Cita created", logging.Fields{
		"cita_id": cita.ID,
		"fecha":   cita.Fecha,
		"hora":    cita.Hora,
	})

	return cita, nil
}

// IsSlotTaken reports whether an active appointment holds the slot.
func (r *SQLCitaRepository) IsSlotTaken(ctx context.Context, fecha, hora string) (bool, error) {
	query := r.dialect.Rebind(`
		SELECT COUNT(*) FROM citas
		WHERE fecha = $1 AND hora = $2 AND estado <> $3
	`)

	var count int
	if err := r.db.QueryRowContext(ctx, query, fecha, hora, string(models.CitaEstadoCancelada)).Scan(&count); err != nil {
		return false, errors.Wrap(err, "checking cita slot")
	}

	return count > 0, nil
}

// ListHorasOcupadas returns the booked times of a date in ascending order.
func (r *SQLCitaRepository) ListHorasOcupadas(ctx context.Context, fecha string) ([]string, error) {
	query := r.dialect.Rebind(`
		SELECT hora FROM citas
		WHERE fecha = $1 AND estado <> $2
		ORDER BY hora
	`)

	rows, err := r.db.QueryContext(ctx, query, fecha, string(models.CitaEstadoCancelada))
	if err != nil {
		return nil, errors.Wrap(err, "listing horas ocupadas")
	}
	defer rows.Close()

	horas := make([]string, 0)
	for rows.Next() {
		var hora string
		if err := rows.Scan(&hora); err != nil {
			return nil, errors.Wrap(err, "scanning hora")
		}
		horas = append(horas, hora)
	}

	return horas, rows.Err()
}
