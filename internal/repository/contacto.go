package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const contactoColumns = `id, nombre, email, telefono, mensaje, fecha_creacion`

// SQLContactoRepository implements ContactoRepository on database/sql.
type SQLContactoRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *logging.Logger
}

// NewSQLContactoRepository creates a new SQL contact repository.
func NewSQLContactoRepository(db *sql.DB, dialect Dialect) *SQLContactoRepository {
	return &SQLContactoRepository{
		db:      db,
		dialect: dialect,
		logger:  logging.NewLogger("contacto-repository"),
	}
}

// Create inserts a new contact message.
func (r *SQLContactoRepository) Create(ctx context.Context, req *models.CreateContactoRequest) (*models.Contacto, error) {
	r.logger.Debug("Creating contacto", logging.Fields{"email": req.Email})

	contacto := &models.Contacto{
		Nombre:        req.Nombre,
		Email:         req.Email,
		Telefono:      stringPtr(nullString(req.Telefono)),
		Mensaje:       req.Mensaje,
		FechaCreacion: now(),
	}

	query := r.dialect.Rebind(`
		INSERT INTO contactos (nombre, email, telefono, mensaje, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		contacto.Nombre,
		contacto.Email,
		nullString(req.Telefono),
		contacto.Mensaje,
		contacto.FechaCreacion,
	).Scan(&contacto.ID)
	if err != nil {
		r.logger.Error("Failed to create contacto", logging.Fields{
			"email": req.Email,
			"error": err.Error(),
		})
		return nil, errors.Wrap(err, "inserting contacto")
	}

	r.logger.Info("Contacto created", logging.Fields{"contacto_id": contacto.ID})

	return contacto, nil
}

// GetByID retrieves a contact message by id.
func (r *SQLContactoRepository) GetByID(ctx context.Context, id int64) (*models.Contacto, error) {
	query := r.dialect.Rebind(`SELECT ` + contactoColumns + ` FROM contactos WHERE id = $1`)

	contacto, err := scanContacto(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch contacto", logging.Fields{
			"contacto_id": id,
			"error":       err.Error(),
		})
		return nil, errors.Wrap(err, "fetching contacto")
	}

	return contacto, nil
}

// List returns all contact messages, newest first.
func (r *SQLContactoRepository) List(ctx context.Context) ([]*models.Contacto, error) {
	query := `SELECT ` + contactoColumns + ` FROM contactos ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing contactos")
	}
	defer rows.Close()

	contactos := make([]*models.Contacto, 0)
	for rows.Next() {
		contacto, err := scanContacto(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning contacto")
		}
		contactos = append(contactos, contacto)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating contactos")
	}

	r.logger.Debug("Contactos listed", logging.Fields{"count": len(contactos)})

	return contactos, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContacto(row rowScanner) (*models.Contacto, error) {
	var contacto models.Contacto
	var telefono sql.NullString

	err := row.Scan(
		&contacto.ID,
		&contacto.Nombre,
		&contacto.Email,
		&telefono,
		&contacto.Mensaje,
		&contacto.FechaCreacion,
	)
	if err != nil {
		return nil, err
	}

	contacto.Telefono = stringPtr(telefono)
	return &contacto, nil
}
