package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const facturaColumns = `id, nombre_original, nombre_archivo, content_type, tamano, ruta, fecha_subida`

// SQLFacturaRepository implements FacturaRepository on database/sql.
type SQLFacturaRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *logging.Logger
}

// NewSQLFacturaRepository creates a new SQL invoice repository.
func NewSQLFacturaRepository(db *sql.DB, dialect Dialect) *SQLFacturaRepository {
	return &SQLFacturaRepository{
		db:      db,
		dialect: dialect,
		logger:  logging.NewLogger("factura-repository"),
	}
}

// Create records the metadata of a stored invoice file.
func (r *SQLFacturaRepository) Create(ctx context.Context, factura *models.Factura) (*models.Factura, error) {
	out := *factura
	if out.FechaSubida.IsZero() {
		out.FechaSubida = now()
	}

	query := r.dialect.Rebind(`
		INSERT INTO facturas (nombre_original, nombre_archivo, content_type, tamano, ruta, fecha_subida)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		out.NombreOriginal,
		out.NombreArchivo,
		out.ContentType,
		out.Tamano,
		out.Ruta,
		out.FechaSubida,
	).Scan(&out.ID)
	if err != nil {
		r.logger.Error("Failed to create factura", logging.Fields{
			"nombre_archivo": out.NombreArchivo,
			"error":          err.Error(),
		})
		return nil, errors.Wrap(err, "inserting factura")
	}

	r.logger.Info("Factura created", logging.Fields{
		"factura_id": out.ID,
		"tamano":     out.Tamano,
	})

	return &out, nil
}

// GetByID retrieves invoice metadata by id.
func (r *SQLFacturaRepository) GetByID(ctx context.Context, id int64) (*models.Factura, error) {
	query := r.dialect.Rebind(`SELECT ` + facturaColumns + ` FROM facturas WHERE id = $1`)

	factura, err := scanFactura(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fetching factura")
	}

	return factura, nil
}

// List returns all invoices, newest first.
func (r *SQLFacturaRepository) List(ctx context.Context) ([]*models.Factura, error) {
	query := `SELECT ` + facturaColumns + ` FROM facturas ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing facturas")
	}
	defer rows.Close()

	facturas := make([]*models.Factura, 0)
	for rows.Next() {
		factura, err := scanFactura(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning factura")
		}
		facturas = append(facturas, factura)
	}

	return facturas, rows.Err()
}

func scanFactura(row rowScanner) (*models.Factura, error) {
	var factura models.Factura

	err := row.Scan(
		&factura.ID,
		&factura.NombreOriginal,
		&factura.NombreArchivo,
		&factura.ContentType,
		&factura.Tamano,
		&factura.Ruta,
		&factura.FechaSubida,
	)
	if err != nil {
		return nil, err
	}

	return &factura, nil
}
