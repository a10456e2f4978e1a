package repository

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// MemoryContactoCache implements ContactoCache in process, for single
// instance deployments without Redis.
type MemoryContactoCache struct {
	store   *gocache.Cache
	version atomic.Int64
}

// NewMemoryContactoCache creates an in-process contact cache.
func NewMemoryContactoCache(ttl time.Duration) *MemoryContactoCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryContactoCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryContactoCache) Get(_ context.Context, id int64) (*models.Contacto, error) {
	v, ok := c.store.Get(contactoKey(id))
	if !ok {
		return nil, nil
	}
	contacto := *v.(*models.Contacto)
	return &contacto, nil
}

func (c *MemoryContactoCache) Set(_ context.Context, contacto *models.Contacto) error {
	cp := *contacto
	c.store.SetDefault(contactoKey(contacto.ID), &cp)
	return nil
}

func (c *MemoryContactoCache) ListVersion(_ context.Context) (int64, error) {
	return c.version.Load(), nil
}

func (c *MemoryContactoCache) GetList(_ context.Context, version int64) ([]*models.Contacto, error) {
	v, ok := c.store.Get(contactoListKey(version))
	if !ok {
		return nil, nil
	}
	cached := v.([]*models.Contacto)
	out := make([]*models.Contacto, len(cached))
	copy(out, cached)
	return out, nil
}

func (c *MemoryContactoCache) SetList(_ context.Context, version int64, contactos []*models.Contacto) error {
	cp := make([]*models.Contacto, len(contactos))
	copy(cp, contactos)
	c.store.SetDefault(contactoListKey(version), cp)
	return nil
}

func (c *MemoryContactoCache) InvalidateList(_ context.Context) error {
	old := c.version.Add(1) - 1
	c.store.Delete(contactoListKey(old))
	return nil
}
