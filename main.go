// File: mediquery/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediquery/client"
	"mediquery/config"
	"mediquery/cron"
	"mediquery/handlers"
	"mediquery/middleware"
	"mediquery/routes"
	"mediquery/services/records"
	"mediquery/services/session"
	"mediquery/services/sharing"
	"mediquery/services/timeline"
	"mediquery/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	utils.InitCache()

	// Shared client for the diagnosis backend.
	backendTimeout := time.Duration(config.AppConfig.BackendTimeoutSec) * time.Second
	api := client.New(config.AppConfig.BackendURL, backendTimeout, logger)

	// Session registry: each session gets its own controller and map adapter.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	registry := session.NewRegistry(sessionTTL, func() *session.Controller {
		return session.NewController(api, session.NewMapSyncAdapter(nil), config.AppConfig.DefaultMaxDistanceKm, logger)
	})

	// Idle sessions are swept by the async maintenance worker when redis is
	// configured, and by an in-process ticker otherwise.
	janitorStop := make(chan struct{})
	if config.AppConfig.RedisEnabled {
		cron.InitMaintenanceWorker(registry)
	} else {
		registry.StartJanitor(time.Minute, janitorStop)
	}

	// services.
	shareService := &sharing.DefaultShareService{API: api, Logger: logger}
	timelineService := &timeline.DefaultTimelineService{
		API:    api,
		Cache:  utils.GetCacheClient(),
		Logger: logger,
	}
	archiveService := &records.DefaultArchiveService{API: api, Logger: logger}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Session:  handlers.NewSessionHandler(registry, logger),
		Stream:   handlers.NewStreamHandler(registry, logger),
		Booking:  handlers.NewBookingHandler(registry, api, logger),
		Records:  handlers.NewRecordsHandler(archiveService, logger),
		Sharing:  handlers.NewSharingHandler(shareService, logger),
		Timeline: handlers.NewTimelineHandler(timelineService, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8090"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
