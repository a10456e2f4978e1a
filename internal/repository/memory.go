package repository

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// MemoryContactoRepository keeps contacts in memory. It backs the
// "memory" database driver and tests.
type MemoryContactoRepository struct {
	mu        sync.RWMutex
	nextID    int64
	contactos []*models.Contacto
}

func NewMemoryContactoRepository() *MemoryContactoRepository {
	return &MemoryContactoRepository{nextID: 1}
}

func (r *MemoryContactoRepository) Create(_ context.Context, req *models.CreateContactoRequest) (*models.Contacto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacto := &models.Contacto{
		ID:            r.nextID,
		Nombre:        req.Nombre,
		Email:         req.Email,
		Telefono:      stringPtr(nullString(req.Telefono)),
		Mensaje:       req.Mensaje,
		FechaCreacion: now(),
	}
	r.nextID++
	r.contactos = append(r.contactos, contacto)

	cp := *contacto
	return &cp, nil
}

func (r *MemoryContactoRepository) GetByID(_ context.Context, id int64) (*models.Contacto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.contactos {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryContactoRepository) List(_ context.Context) ([]*models.Contacto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Contacto, 0, len(r.contactos))
	for i := len(r.contactos) - 1; i >= 0; i-- {
		cp := *r.contactos[i]
		out = append(out, &cp)
	}
	return out, nil
}

// MemoryFacturaRepository keeps invoice metadata in memory.
type MemoryFacturaRepository struct {
	mu       sync.RWMutex
	nextID   int64
	facturas []*models.Factura
}

func NewMemoryFacturaRepository() *MemoryFacturaRepository {
	return &MemoryFacturaRepository{nextID: 1}
}

func (r *MemoryFacturaRepository) Create(_ context.Context, factura *models.Factura) (*models.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.facturas {
		if f.NombreArchivo == factura.NombreArchivo {
			return nil, apperrors.ErrConflict
		}
	}

	stored := *factura
	stored.ID = r.nextID
	if stored.FechaSubida.IsZero() {
		stored.FechaSubida = now()
	}
	r.nextID++
	r.facturas = append(r.facturas, &stored)

	cp := stored
	return &cp, nil
}

func (r *MemoryFacturaRepository) GetByID(_ context.Context, id int64) (*models.Factura, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.facturas {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *MemoryFacturaRepository) List(_ context.Context) ([]*models.Factura, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Factura, 0, len(r.facturas))
	for i := len(r.facturas) - 1; i >= 0; i-- {
		cp := *r.facturas[i]
		out = append(out, &cp)
	}
	return out, nil
}

// MemoryCitaRepository keeps appointments in memory.
type MemoryCitaRepository struct {
	mu     sync.RWMutex
	nextID int64
	citas  []*models.Cita
}

func NewMemoryCitaRepository() *MemoryCitaRepository {
	return &MemoryCitaRepository{nextID: 1}
}

func (r *MemoryCitaRepository) Create(_ context.Context, req *models.CreateCitaRequest) (*models.Cita, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotTakenLocked(req.Fecha, req.Hora) {
		return nil, apperrors.ErrConflict
	}

	cita := &models.Cita{
		ID:            r.nextID,
		Nombre:        req.Nombre,
		Email:         req.Email,
		Telefono:      stringPtr(nullString(req.Telefono)),
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Mensaje:       stringPtr(nullString(req.Mensaje)),
		Estado:        models.CitaEstadoProgramada,
		FechaCreacion: now(),
	}
	r.nextID++
	r.citas = append(r.citas, cita)

	cp := *cita
	return &cp, nil
}

func (r *MemoryCitaRepository) IsSlotTaken(_ context.Context, fecha, hora string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slotTakenLocked(fecha, hora), nil
}

func (r *MemoryCitaRepository) slotTakenLocked(fecha, hora string) bool {
	for _, c := range r.citas {
		if c.Fecha == fecha && c.Hora == hora && c.Estado != models.CitaEstadoCancelada {
			return true
		}
	}
	return false
}

func (r *MemoryCitaRepository) ListHorasOcupadas(_ context.Context, fecha string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	horas := make([]string, 0)
	for _, c := range r.citas {
		if c.Fecha == fecha && c.Estado != models.CitaEstadoCancelada {
			horas = append(horas, c.Hora)
		}
	}
	sort.Strings(horas)
	return horas, nil
}
