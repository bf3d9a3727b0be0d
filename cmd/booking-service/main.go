package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/centroimagen/booking-api/internal/booking"
	"github.com/centroimagen/booking-api/internal/catalog"
	"github.com/centroimagen/booking-api/internal/notify"
	"github.com/centroimagen/booking-api/internal/results"
	"github.com/centroimagen/booking-api/internal/session"
	"github.com/centroimagen/booking-api/pkg/config"
	"github.com/centroimagen/booking-api/pkg/database"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting Booking Service")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateSchema(ctx); err != nil {
		cancel()
		log.WithError(err).Error("Failed to create database schema")
		os.Exit(1)
	}
	cancel()

	// Open the session store
	store, err := session.NewBoltStore(cfg.Session.StorePath,
		time.Duration(cfg.Session.IOTimeout)*time.Second, log)
	if err != nil {
		log.WithError(err).Error("Failed to open session store")
		os.Exit(1)
	}
	defer store.Close()

	// Monitoring
	metrics := monitoring.NewMetricsCollector("booking-service")
	health := monitoring.NewHealthManager("booking-service", "1.0.0")
	health.RegisterChecker("database", monitoring.NewDatabaseHealthChecker(db.DB))
	health.RegisterChecker("session_store", monitoring.NewCustomHealthChecker(store.HealthCheck))

	// Catalog and notifications
	cat := catalog.NewService()
	whatsapp := notify.NewWhatsAppComposer(&cfg.Notify, log, notify.NewLogDispatcher(log))
	email := notify.NewEmailSender(&cfg.Notify.SMTP, log)
	notifier := notify.NewManager(log, metrics, whatsapp, email)

	// Repositories
	identityRepo := session.NewIdentityRepository(db, log)
	appointmentRepo := booking.NewRepository(db, log)
	resultRepo := results.NewRepository(db, log)

	// Services
	sessionService := session.NewService(cfg, log, metrics, identityRepo, store, notifier)
	bookingService := booking.NewService(log, metrics, appointmentRepo, identityRepo, cat, notifier)
	resultService := results.NewService(log, metrics, resultRepo, identityRepo, notifier)

	// Restore a persisted session, if any
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if _, err := sessionService.Load(loadCtx); err != nil {
		log.WithError(err).Warn("Failed to restore persisted session")
	}
	loadCancel()

	// Handlers and middleware
	authMiddleware := session.NewMiddleware(sessionService, log)
	sessionHandler := session.NewHandler(sessionService, log)
	catalogHandler := catalog.NewHandler(cat, log)
	bookingHandler := booking.NewHandler(bookingService, log)
	resultHandler := results.NewHandler(resultService, log)

	// Router
	router := mux.NewRouter()
	router.HandleFunc(cfg.Monitoring.HealthPath, health.HTTPHandler()).Methods("GET")
	if cfg.Monitoring.Enabled {
		router.Handle(cfg.Monitoring.MetricsPath, metrics.Handler()).Methods("GET")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	sessionHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware.Authenticate)
	sessionHandler.RegisterAuthedRoutes(authed)
	bookingHandler.RegisterRoutes(authed)
	resultHandler.RegisterRoutes(authed)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.RequireRole("admin"))
	sessionHandler.RegisterAdminRoutes(admin)
	bookingHandler.RegisterAdminRoutes(admin)
	resultHandler.RegisterAdminRoutes(admin)

	// CORS and metrics wrap the whole router
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Origin", "Content-Type", "Authorization"}),
	)
	handler := metrics.HTTPMiddleware(cors(router))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("address", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Booking Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Booking Service stopped")
}
