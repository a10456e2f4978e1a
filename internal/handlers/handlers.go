package handlers

import (
	"context"
	"time"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/service"
)

// Pinger checks a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers holds all HTTP handlers of the API.
type Handlers struct {
	contactoService *service.ContactoService
	facturaService  *service.FacturaService
	citaService     *service.CitaService
	db              Pinger
	metrics         *metrics.Metrics
	config          *config.Config
	logger          *logging.Logger
	now             func() time.Time
}

// NewHandlers creates a new handlers instance. db may be nil when the
// memory driver is used.
func NewHandlers(
	contactoService *service.ContactoService,
	facturaService *service.FacturaService,
	citaService *service.CitaService,
	db Pinger,
	m *metrics.Metrics,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		contactoService: contactoService,
		facturaService:  facturaService,
		citaService:     citaService,
		db:              db,
		metrics:         m,
		config:          cfg,
		logger:          logging.NewLogger("handlers"),
		now:             time.Now,
	}
}
