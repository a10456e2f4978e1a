package repository

import (
	"context"

	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// ContactoRepository persists contact form messages.
type ContactoRepository interface {
	Create(ctx context.Context, req *models.CreateContactoRequest) (*models.Contacto, error)
	GetByID(ctx context.Context, id int64) (*models.Contacto, error)
	List(ctx context.Context) ([]*models.Contacto, error)
}

// FacturaRepository persists metadata of uploaded invoice files.
type FacturaRepository interface {
	Create(ctx context.Context, factura *models.Factura) (*models.Factura, error)
	GetByID(ctx context.Context, id int64) (*models.Factura, error)
	List(ctx context.Context) ([]*models.Factura, error)
}

// CitaRepository persists appointments.
type CitaRepository interface {
	Create(ctx context.Context, req *models.CreateCitaRequest) (*models.Cita, error)
	IsSlotTaken(ctx context.Context, fecha, hora string) (bool, error)
	ListHorasOcupadas(ctx context.Context, fecha string) ([]string, error)
}

// ContactoCache defines caching operations for contacts.
// Get and GetList return nil with no error on a miss.
//
// Listings are stored under a version. Callers read ListVersion before
// loading the listing from the repository and store it under that version;
// InvalidateList bumps the version, so a listing loaded before a write can
// never be served after it.
type ContactoCache interface {
	Get(ctx context.Context, id int64) (*models.Contacto, error)
	Set(ctx context.Context, contacto *models.Contacto) error
	ListVersion(ctx context.Context) (int64, error)
	GetList(ctx context.Context, version int64) ([]*models.Contacto, error)
	SetList(ctx context.Context, version int64, contactos []*models.Contacto) error
	InvalidateList(ctx context.Context) error
}

var (
	_ ContactoRepository = (*SQLContactoRepository)(nil)
	_ FacturaRepository  = (*SQLFacturaRepository)(nil)
	_ CitaRepository     = (*SQLCitaRepository)(nil)
	_ ContactoRepository = (*MemoryContactoRepository)(nil)
	_ FacturaRepository  = (*MemoryFacturaRepository)(nil)
	_ CitaRepository     = (*MemoryCitaRepository)(nil)
	_ ContactoCache      = (*RedisContactoCache)(nil)
	_ ContactoCache      = (*MemoryContactoCache)(nil)
)
