package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/impuestosrd/impuestosrd-api/internal/app"
	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

// @title        ImpuestosRD API
// @version      1.0
// @description  Tax calculator, contact, invoice upload, appointment and DGII helper endpoints.
// @BasePath     /
func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logging.Sync()

	logger := logging.NewLogger("impuestosrd")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialise application", logging.Fields{"error": err.Error()})
	}
	defer a.Close()

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":      cfg.Server.Port,
			"db_driver": cfg.Database.Driver,
		})
		if err := a.Server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	if a.Consumer != nil {
		go func() {
			if err := a.Consumer.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if a.Consumer != nil {
		a.Consumer.Stop()
	}
	cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}
