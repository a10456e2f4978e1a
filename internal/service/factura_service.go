package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
)

// sniffLen is how many leading bytes are inspected to detect a file type.
const sniffLen = 3072

var allowedFacturaTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"application/pdf",
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// FacturaService stores uploaded invoices.
type FacturaService struct {
	repo      repository.FacturaRepository
	store     FileStore
	publisher EventPublisher
	metrics   *metrics.Metrics
	maxSize   int64
	logger    *logging.Logger
}

// NewFacturaService creates a new invoice service.
func NewFacturaService(
	repo repository.FacturaRepository,
	store FileStore,
	publisher EventPublisher,
	m *metrics.Metrics,
	maxSize int64,
) *FacturaService {
	return &FacturaService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		metrics:   m,
		maxSize:   maxSize,
		logger:    logging.NewLogger("factura-service"),
	}
}

// UploadFactura checks the file type from its content, stores it and
// records its metadata.
func (s *FacturaService) UploadFactura(ctx context.Context, up *Upload) (*models.Factura, error) {
	if up == nil || up.Content == nil {
		s.metrics.UploadRejected()
		return nil, errors.NewValidationError("factura", "No se ha subido ningún archivo")
	}
	if up.Size > s.maxSize {
		s.metrics.UploadRejected()
		return nil, s.tooLarge()
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	head = head[:n]
	if n == 0 {
		s.metrics.UploadRejected()
		return nil, errors.NewValidationError("factura", "El archivo está vacío")
	}

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedFacturaTypes...) {
		s.metrics.UploadRejected()
		s.logger.Warn("Rejected factura type", logging.Fields{
			"filename":  up.Filename,
			"mime_type": mtype.String(),
		})
		return nil, errors.NewValidationError("factura", "Solo se permiten imágenes (PNG, JPG, WEBP) o PDF")
	}

	// One byte over the limit is enough to tell the file is too large.
	content := io.LimitReader(io.MultiReader(bytes.NewReader(head), up.Content), s.maxSize+1)

	stored, err := s.store.Save(ctx, content, mtype.Extension())
	if err != nil {
		return nil, err
	}
	if stored.Size > s.maxSize {
		_ = s.store.Delete(ctx, stored.Name)
		s.metrics.UploadRejected()
		return nil, s.tooLarge()
	}

	factura, err := s.repo.Create(ctx, &models.Factura{
		NombreOriginal: filepath.Base(up.Filename),
		NombreArchivo:  stored.Name,
		ContentType:    mtype.String(),
		Tamano:         stored.Size,
		Ruta:           stored.Path,
	})
	if err != nil {
		_ = s.store.Delete(ctx, stored.Name)
		return nil, err
	}
	s.metrics.UploadStored(stored.Size)

	err = s.publisher.PublishFacturaSubida(ctx, factura)
	s.metrics.EventPublished("factura.subida", err)
	if err != nil {
		s.logger.Error("Failed to publish factura subida event", logging.Fields{
			"factura_id": factura.ID,
			"error":      err.Error(),
		})
	}

	s.logger.Info("Factura uploaded", logging.Fields{
		"factura_id": factura.ID,
		"mime_type":  factura.ContentType,
		"tamano":     factura.Tamano,
	})

	return factura, nil
}

func (s *FacturaService) tooLarge() error {
	return errors.NewValidationError("factura",
		fmt.Sprintf("El archivo excede el tamaño máximo de %dMB", s.maxSize/(1024*1024)))
}

// GetFactura retrieves invoice metadata by id.
func (s *FacturaService) GetFactura(ctx context.Context, id int64) (*models.Factura, error) {
	return s.repo.GetByID(ctx, id)
}

// ListFacturas returns all invoices, newest first.
func (s *FacturaService) ListFacturas(ctx context.Context) ([]*models.Factura, error) {
	return s.repo.List(ctx)
}

// DownloadURL returns the public path of an invoice file with its metadata.
func (s *FacturaService) DownloadURL(ctx context.Context, id int64) (string, *models.Factura, error) {
	factura, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return factura.Ruta, factura, nil
}
