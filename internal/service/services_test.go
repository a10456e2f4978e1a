package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/events"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
	"github.com/impuestosrd/impuestosrd-api/internal/storage"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

func TestContactoService_CreateContacto(t *testing.T) {
	repo := repository.NewMemoryContactoRepository()
	cache := repository.NewMemoryContactoCache(time.Minute)
	publisher := events.NewMockEventPublisher()
	svc := NewContactoService(repo, cache, publisher, metrics.New())
	ctx := context.Background()

	// Prime the list cache so creation has something to invalidate.
	list, err := svc.ListContactos(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	contacto, err := svc.CreateContacto(ctx, &models.CreateContactoRequest{
		Nombre:  "  Ana  ",
		Email:   "ana@example.com",
		Mensaje: "Quiero asesoría",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", contacto.Nombre)
	assert.Equal(t, []events.EventType{events.EventTypeContactoCreado}, publisher.Types())

	list, err = svc.ListContactos(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := svc.GetContacto(ctx, contacto.ID)
	require.NoError(t, err)
	assert.Equal(t, contacto.ID, got.ID)
}

// interleavingContactoRepo runs afterList once, after a listing has been
// read but before the caller gets it back.
type interleavingContactoRepo struct {
	*repository.MemoryContactoRepository
	afterList func()
}

func (r *interleavingContactoRepo) List(ctx context.Context) ([]*models.Contacto, error) {
	list, err := r.MemoryContactoRepository.List(ctx)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return list, err
}

func TestContactoService_ListContactos_CreateDuringListIsNotHidden(t *testing.T) {
	repo := &interleavingContactoRepo{MemoryContactoRepository: repository.NewMemoryContactoRepository()}
	svc := NewContactoService(repo, repository.NewMemoryContactoCache(time.Minute), events.NoopPublisher{}, metrics.New())
	ctx := context.Background()

	repo.afterList = func() {
		_, err := svc.CreateContacto(ctx, &models.CreateContactoRequest{
			Nombre:  "Ana",
			Email:   "ana@example.com",
			Mensaje: "hola",
		})
		require.NoError(t, err)
	}

	list, err := svc.ListContactos(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.ListContactos(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContactoService_CreateContacto_Validation(t *testing.T) {
	publisher := events.NewMockEventPublisher()
	svc := NewContactoService(repository.NewMemoryContactoRepository(), nil, publisher, metrics.New())

	_, err := svc.CreateContacto(context.Background(), &models.CreateContactoRequest{Nombre: "Ana"})

	ve, ok := apperrors.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "requerido", ve.Details["email"])
	assert.Equal(t, "requerido", ve.Details["mensaje"])
	assert.Empty(t, publisher.Types())
}

func TestContactoService_PublishFailureDoesNotFail(t *testing.T) {
	publisher := events.NewMockEventPublisher()
	publisher.Err = errors.New("broker unavailable")
	svc := NewContactoService(repository.NewMemoryContactoRepository(), nil, publisher, metrics.New())

	contacto, err := svc.CreateContacto(context.Background(), &models.CreateContactoRequest{
		Nombre:  "Ana",
		Email:   "ana@example.com",
		Mensaje: "hola",
	})
	require.NoError(t, err)
	assert.NotZero(t, contacto.ID)
}

func TestContactoService_GetContacto_NotFound(t *testing.T) {
	svc := NewContactoService(repository.NewMemoryContactoRepository(), repository.NewMemoryContactoCache(time.Minute), events.NoopPublisher{}, metrics.New())

	_, err := svc.GetContacto(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func newFacturaService(t *testing.T, maxSize int64) (*FacturaService, string, *events.MockEventPublisher) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalFileStore(dir, "/uploads")
	require.NoError(t, err)
	publisher := events.NewMockEventPublisher()
	return NewFacturaService(repository.NewMemoryFacturaRepository(), store, publisher, metrics.New(), maxSize), dir, publisher
}

func TestFacturaService_UploadFactura(t *testing.T) {
	svc, dir, publisher := newFacturaService(t, 10*1024*1024)
	ctx := context.Background()

	factura, err := svc.UploadFactura(ctx, &Upload{
		Filename: "factura.pdf",
		Size:     int64(len(pdfContent)),
		Content:  bytes.NewReader(pdfContent),
	})
	require.NoError(t, err)

	assert.Equal(t, "factura.pdf", factura.NombreOriginal)
	assert.Equal(t, "application/pdf", factura.ContentType)
	assert.Equal(t, int64(len(pdfContent)), factura.Tamano)
	assert.True(t, strings.HasSuffix(factura.NombreArchivo, ".pdf"))
	assert.Equal(t, "/uploads/"+factura.NombreArchivo, factura.Ruta)

	stored, err := os.ReadFile(filepath.Join(dir, factura.NombreArchivo))
	require.NoError(t, err)
	assert.Equal(t, pdfContent, stored)

	url, got, err := svc.DownloadURL(ctx, factura.ID)
	require.NoError(t, err)
	assert.Equal(t, factura.Ruta, url)
	assert.Equal(t, factura.ID, got.ID)

	assert.Equal(t, []events.EventType{events.EventTypeFacturaSubida}, publisher.Types())
}

func TestFacturaService_UploadFactura_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int64
		upload  *Upload
	}{
		{
			name:    "missing file",
			maxSize: 1024,
			upload:  nil,
		},
		{
			name:    "declared size over limit",
			maxSize: 16,
			upload:  &Upload{Filename: "a.pdf", Size: 17, Content: bytes.NewReader(pdfContent)},
		},
		{
			name:    "actual size over limit",
			maxSize: 16,
			upload:  &Upload{Filename: "a.pdf", Size: 1, Content: bytes.NewReader(pdfContent)},
		},
		{
			name:    "text disguised as pdf",
			maxSize: 1024,
			upload:  &Upload{Filename: "a.pdf", Size: 11, Content: strings.NewReader("hello world")},
		},
		{
			name:    "empty file",
			maxSize: 1024,
			upload:  &Upload{Filename: "a.pdf", Size: 0, Content: strings.NewReader("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir, _ := newFacturaService(t, tt.maxSize)

			_, err := svc.UploadFactura(context.Background(), tt.upload)

			_, ok := apperrors.AsValidationError(err)
			assert.True(t, ok, "expected validation error, got %v", err)

			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}

func TestFacturaService_GetFactura_NotFound(t *testing.T) {
	svc, _, _ := newFacturaService(t, 1024)

	_, err := svc.GetFactura(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = svc.DownloadURL(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCitaService(t *testing.T) {
	svc := NewCitaService(repository.NewMemoryCitaRepository(), metrics.New())
	ctx := context.Background()

	req := func() *models.CreateCitaRequest {
		return &models.CreateCitaRequest{
			Nombre: "Maria",
			Email:  "maria@example.com",
			Fecha:  "2026-11-02",
			Hora:   "10:00",
		}
	}

	cita, err := svc.CreateCita(ctx, req())
	require.NoError(t, err)
	assert.Equal(t, models.CitaEstadoProgramada, cita.Estado)

	_, err = svc.CreateCita(ctx, req())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	horas, err := svc.HorasOcupadas(ctx, "2026-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, horas)

	_, err = svc.HorasOcupadas(ctx, "")
	_, ok := apperrors.AsValidationError(err)
	assert.True(t, ok)

	bad := req()
	bad.Hora = "25:00"
	_, err = svc.CreateCita(ctx, bad)
	_, ok = apperrors.AsValidationError(err)
	assert.True(t, ok)
}
