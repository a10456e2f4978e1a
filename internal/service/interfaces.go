package service

import (
	"context"
	"io"

	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/storage"
)

// EventPublisher publishes domain events.
type EventPublisher interface {
	PublishContactoCreado(ctx context.Context, contacto *models.Contacto) error
	PublishFacturaSubida(ctx context.Context, factura *models.Factura) error
}

// FileStore persists uploaded files.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, ext string) (*storage.StoredFile, error)
	Delete(ctx context.Context, name string) error
}
