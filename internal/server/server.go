package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/impuestosrd/impuestosrd-api/docs"
	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/handlers"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/middleware"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
	handlers   *handlers.Handlers
	metrics    *metrics.Metrics
}

// New builds the router and the HTTP server around it.
func New(h *handlers.Handlers, m *metrics.Metrics, cfg *config.Config) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		metrics:  m,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS(s.config.CORS))
	s.router.Use(s.metrics.Middleware())
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/", h.Root)
	s.router.GET("/health", h.Health)
	s.router.GET("/ready", h.Ready)
	s.router.GET("/live", h.Live)
	s.router.GET("/version", h.VersionInfo)
	s.router.GET("/metrics", s.metrics.Handler())

	if s.config.Features.EnableSwagger {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	s.router.Static(s.config.Storage.PublicPath, s.config.Storage.UploadDir)

	// Public writes are rate limited per client.
	writes := []gin.HandlerFunc{}
	if s.config.Features.EnableRateLimit {
		writes = append(writes, middleware.NewRateLimiter(s.config.RateLimit).Middleware())
	}
	limited := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), handler)
	}

	api := s.router.Group("/api")
	{
		calculadora := api.Group("/calculadora")
		calculadora.POST("/calcular", h.Calcular)
		calculadora.GET("/tipos", h.TiposCalculo)

		contacto := api.Group("/contacto")
		contacto.POST("/enviar", limited(h.CreateContacto)...)
		contacto.GET("", h.ListContactos)
		contacto.GET("/:id", h.GetContacto)

		api.POST("/enviar-contacto", limited(h.CreateContactoLegacy)...)

		facturas := api.Group("/facturas")
		facturas.POST("/subir", limited(h.UploadFactura)...)
		facturas.GET("", h.ListFacturas)
		facturas.GET("/:id", h.GetFactura)
		facturas.GET("/:id/download", h.DownloadFactura)

		citas := api.Group("/citas")
		citas.POST("", limited(h.CreateCita)...)
		citas.GET("", h.HorasOcupadas)

		dgii := api.Group("/dgii")
		dgii.GET("/validar-rnc/:rnc", h.ValidarRNC)
		dgii.POST("/consultar-rnc", h.ConsultarRNC)
		dgii.GET("/categorias", h.Categorias)
		dgii.GET("/regimenes", h.Regimenes)
	}
}

// Router exposes the engine, for adapters such as the Lambda proxy.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	logging.Info("HTTP server listening", logging.Fields{"addr": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
