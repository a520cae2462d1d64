package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/config"
	"github.com/oakmont/qbgateway/infrastructure"
	"github.com/oakmont/qbgateway/infrastructure/logger"
	"github.com/oakmont/qbgateway/infrastructure/metrics"
	"github.com/oakmont/qbgateway/routes"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	metrics.Init()

	// Create context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create dependency container
	container, err := infrastructure.NewContainer(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	defer container.Shutdown()

	// Create router and set up routes
	router := mux.NewRouter()
	routes.SetupRoutes(router, container)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		zlog.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.QuickBooks.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown gracefully
	zlog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("server shutdown failed", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
}
