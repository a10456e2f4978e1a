package service

import (
	"context"

	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
)

// ContactoService handles contact form messages.
type ContactoService struct {
	repo      repository.ContactoRepository
	cache     repository.ContactoCache
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewContactoService creates a new contact service. cache may be nil to
// disable caching.
func NewContactoService(
	repo repository.ContactoRepository,
	cache repository.ContactoCache,
	publisher EventPublisher,
	m *metrics.Metrics,
) *ContactoService {
	return &ContactoService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    logging.NewLogger("contacto-service"),
	}
}

// CreateContacto validates and stores a contact message.
func (s *ContactoService) CreateContacto(ctx context.Context, req *models.CreateContactoRequest) (*models.Contacto, error) {
	if err := ValidateCreateContactoRequest(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// CreateContactoLegacy stores a submission of the legacy form, which
// accepts an empty message.
func (s *ContactoService) CreateContactoLegacy(ctx context.Context, req *models.CreateContactoRequest) (*models.Contacto, error) {
	if err := ValidateLegacyContactoRequest(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

func (s *ContactoService) create(ctx context.Context, req *models.CreateContactoRequest) (*models.Contacto, error) {
	contacto, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create contacto", logging.Fields{
			"email": req.Email,
			"error": err.Error(),
		})
		return nil, err
	}
	s.metrics.ContactoCreated()

	if s.cache != nil {
		if err := s.cache.InvalidateList(ctx); err != nil {
			s.logger.Warn("Failed to invalidate contacto list cache", logging.Fields{"error": err.Error()})
		}
		if err := s.cache.Set(ctx, contacto); err != nil {
			s.logger.Warn("Failed to cache contacto", logging.Fields{
				"contacto_id": contacto.ID,
				"error":       err.Error(),
			})
		}
	}

	// Publishing is best effort; the message is already stored.
	err = s.publisher.PublishContactoCreado(ctx, contacto)
	s.metrics.EventPublished("contacto.creado", err)
	if err != nil {
		s.logger.Error("Failed to publish contacto creado event", logging.Fields{
			"contacto_id": contacto.ID,
			"error":       err.Error(),
		})
	}

	s.logger.Info("Contacto created", logging.Fields{"contacto_id": contacto.ID})

	return contacto, nil
}

// GetContacto retrieves a contact message by id.
func (s *ContactoService) GetContacto(ctx context.Context, id int64) (*models.Contacto, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	contacto, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, contacto)
	}

	return contacto, nil
}

// ListContactos returns all contact messages, newest first.
func (s *ContactoService) ListContactos(ctx context.Context) ([]*models.Contacto, error) {
	// The version is read before the repository so a concurrent create
	// leaves this listing under a version nobody reads any more.
	cacheable := false
	var version int64
	if s.cache != nil {
		v, err := s.cache.ListVersion(ctx)
		if err == nil {
			cacheable, version = true, v
			if cached, err := s.cache.GetList(ctx, version); err == nil && cached != nil {
				return cached, nil
			}
		}
	}

	contactos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetList(ctx, version, contactos); err != nil {
			s.logger.Warn("Failed to cache contacto list", logging.Fields{"error": err.Error()})
		}
	}

	return contactos, nil
}
