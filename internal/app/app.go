// Package app wires configuration into a ready-to-serve API. It is shared
// by the HTTP server and the Lambda entrypoints.
package app

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/impuestosrd/impuestosrd-api/internal/clients"
	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/events"
	"github.com/impuestosrd/impuestosrd-api/internal/handlers"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
	"github.com/impuestosrd/impuestosrd-api/internal/secrets"
	"github.com/impuestosrd/impuestosrd-api/internal/server"
	"github.com/impuestosrd/impuestosrd-api/internal/service"
	"github.com/impuestosrd/impuestosrd-api/internal/storage"
)

// Publisher is an EventPublisher that owns a connection.
type Publisher interface {
	service.EventPublisher
	Close() error
}

// App holds the wired components and what must be released on exit.
type App struct {
	Server    *server.Server
	Consumer  *events.KafkaConsumer
	db        *sql.DB
	publisher Publisher
	closers   []func() error
	logger    *logging.Logger
}

// New builds every component from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{logger: logging.NewLogger("app")}

	contactoRepo, facturaRepo, citaRepo, err := a.initRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewLocalFileStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.publisher = events.NoopPublisher{}
	if cfg.Features.EnableEvents {
		a.publisher = events.NewKafkaPublisher(cfg.Kafka)
	}
	a.closers = append(a.closers, a.publisher.Close)

	if cfg.Features.EnableEvents && cfg.Features.EnableNotifications {
		a.Consumer = events.NewKafkaConsumer(cfg.Kafka, newNotifier(cfg.Email))
	}

	m := metrics.New()

	h := handlers.NewHandlers(
		service.NewContactoService(contactoRepo, a.initCache(cfg), a.publisher, m),
		service.NewFacturaService(facturaRepo, store, a.publisher, m, cfg.Storage.MaxUploadSize),
		service.NewCitaService(citaRepo, m),
		a.pinger(),
		m,
		cfg,
	)

	a.Server = server.New(h, m, cfg)

	a.logger.Info("Application wired", logging.Fields{
		"db_driver":     cfg.Database.Driver,
		"events":        cfg.Features.EnableEvents,
		"notifications": a.Consumer != nil,
		"redis_cache":   cfg.Features.EnableRedisCache,
	})

	return a, nil
}

func (a *App) initRepositories(ctx context.Context, cfg *config.Config) (
	repository.ContactoRepository, repository.FacturaRepository, repository.CitaRepository, error,
) {
	if cfg.Database.Driver == config.DriverMemory {
		a.logger.Warn("Using in-memory repositories, data is lost on restart")
		return repository.NewMemoryContactoRepository(),
			repository.NewMemoryFacturaRepository(),
			repository.NewMemoryCitaRepository(),
			nil
	}

	dbCfg := cfg.Database
	if dbCfg.Driver == config.DriverPostgres {
		dbCfg.Password = secrets.ResolvePassword(ctx, dbCfg.PasswordSecretARN, cfg.AWS.Region, dbCfg.Password)
	}

	db, dialect, err := repository.Open(ctx, dbCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if dbCfg.AutoMigrate || dbCfg.Driver == config.DriverSQLite {
		if err := repository.CreateSchema(ctx, db, dialect); err != nil {
			db.Close()
			return nil, nil, nil, errors.Wrap(err, "auto-migrating")
		}
	}

	return repository.NewSQLContactoRepository(db, dialect),
		repository.NewSQLFacturaRepository(db, dialect),
		repository.NewSQLCitaRepository(db, dialect),
		nil
}

func (a *App) initCache(cfg *config.Config) repository.ContactoCache {
	if !cfg.Features.EnableContactoCaching {
		return nil
	}
	if cfg.Features.EnableRedisCache {
		client := repository.NewRedisClient(cfg.Redis)
		a.closers = append(a.closers, client.Close)
		return repository.NewRedisContactoCache(client, cfg.Redis.TTL)
	}
	return repository.NewMemoryContactoCache(cfg.Redis.TTL)
}

func (a *App) pinger() handlers.Pinger {
	if a.db == nil {
		return nil
	}
	return a.db
}

func newNotifier(cfg config.EmailConfig) events.ContactoNotifier {
	if cfg.ResendAPIKey == "" {
		return clients.NewLogNotificationClient()
	}
	return clients.NewResendNotificationClient(cfg)
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Failed to release resource", logging.Fields{"error": err.Error()})
		}
	}
	a.closers = nil
}
