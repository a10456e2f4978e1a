package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

func openTestDB(t *testing.T) (*SQLContactoRepository, *SQLFacturaRepository, *SQLCitaRepository) {
	t.Helper()

	ctx := context.Background()
	db, dialect, err := Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CreateSchema(ctx, db, dialect))

	return NewSQLContactoRepository(db, dialect),
		NewSQLFacturaRepository(db, dialect),
		NewSQLCitaRepository(db, dialect)
}

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT * FROM citas WHERE fecha = $1 AND hora = $2"

	assert.Equal(t, query, Dialect{Driver: config.DriverPostgres}.Rebind(query))
	assert.Equal(t, "SELECT * FROM citas WHERE fecha = ? AND hora = ?", Dialect{Driver: config.DriverSQLite}.Rebind(query))
}

func TestSQLContactoRepository(t *testing.T) {
	contactos, _, _ := openTestDB(t)
	ctx := context.Background()

	first, err := contactos.Create(ctx, &models.CreateContactoRequest{
		Nombre:  "Ana",
		Email:   "ana@example.com",
		Mensaje: "Necesito ayuda con el IR-2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Nil(t, first.Telefono)

	second, err := contactos.Create(ctx, &models.CreateContactoRequest{
		Nombre:   "Luis",
		Email:    "luis@example.com",
		Telefono: "809-555-1234",
		Mensaje:  "Consulta sobre ITBIS",
	})
	require.NoError(t, err)

	got, err := contactos.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luis", got.Nombre)
	require.NotNil(t, got.Telefono)
	assert.Equal(t, "809-555-1234", *got.Telefono)
	assert.WithinDuration(t, second.FechaCreacion, got.FechaCreacion, time.Millisecond)

	list, err := contactos.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = contactos.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLFacturaRepository(t *testing.T) {
	_, facturas, _ := openTestDB(t)
	ctx := context.Background()

	list, err := facturas.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := facturas.Create(ctx, &models.Factura{
		NombreOriginal: "factura enero.pdf",
		NombreArchivo:  "1700000000-abc.pdf",
		ContentType:    "application/pdf",
		Tamano:         2048,
		Ruta:           "/uploads/1700000000-abc.pdf",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.FechaSubida.IsZero())

	got, err := facturas.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura enero.pdf", got.NombreOriginal)
	assert.Equal(t, int64(2048), got.Tamano)

	_, err = facturas.GetByID(ctx, created.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLCitaRepository(t *testing.T) {
	_, _, citas := openTestDB(t)
	ctx := context.Background()

	req := &models.CreateCitaRequest{
		Nombre: "Maria",
		Email:  "maria@example.com",
		Fecha:  "2026-11-02",
		Hora:   "10:00",
	}

	cita, err := citas.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.CitaEstadoProgramada, cita.Estado)
	assert.Nil(t, cita.Mensaje)

	taken, err := citas.IsSlotTaken(ctx, "2026-11-02", "10:00")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = citas.IsSlotTaken(ctx, "2026-11-02", "11:00")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = citas.Create(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = citas.Create(ctx, &models.CreateCitaRequest{
		Nombre: "Pedro",
		Email:  "pedro@example.com",
		Fecha:  "2026-11-02",
		Hora:   "09:30",
	})
	require.NoError(t, err)

	horas, err := citas.ListHorasOcupadas(ctx, "2026-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:30", "10:00"}, horas)

	horas, err = citas.ListHorasOcupadas(ctx, "2026-11-03")
	require.NoError(t, err)
	assert.Empty(t, horas)
}

func TestDropSchema(t *testing.T) {
	ctx := context.Background()
	db, dialect, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, CreateSchema(ctx, db, dialect))
	require.NoError(t, DropSchema(ctx, db))

	_, err = NewSQLContactoRepository(db, dialect).List(ctx)
	assert.Error(t, err)
}

func TestPostgresRepositories(t *testing.T) {
	t.Skip("Integration test - requires database")
}
