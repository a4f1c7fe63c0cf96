package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/placementdesk/backend/docs"
	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/config"
	"github.com/placementdesk/backend/internal/database"
	"github.com/placementdesk/backend/internal/handlers"
	mW "github.com/placementdesk/backend/internal/middleware"
	"github.com/placementdesk/backend/internal/services"
	"github.com/placementdesk/backend/internal/store"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Placement Desk Ledger API
// @version 1.0
// @description Bookkeeping API for a placement consultancy
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Initialize config
	config.Load(".env")
	cfg := config.ServerConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	var docStore store.DocumentStore
	switch cfg.StorageMode {
	case config.StoragePostgres:
		db := database.InitDatabase(ctx, config.DatabaseConfig())
		defer db.Close()
		docStore = store.NewPostgresDocuments(db)
	case config.StorageFile:
		fileStore, err := store.OpenFileDocuments(cfg.StoragePath)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", cfg.StoragePath, err)
		}
		docStore = fileStore
	default:
		log.Fatalf("Unknown storage mode %q", cfg.StorageMode)
	}
	log.Printf("Storage mode: %s", cfg.StorageMode)

	redisClient := database.InitRedis(ctx, config.RedisConfig())
	if redisClient != nil {
		defer redisClient.Close()
	}

	var notifier store.Notifier = store.NopNotifier{}
	if redisClient != nil {
		notifier = store.NewRedisNotifier(redisClient, cfg.RedisChannel)
	}

	state := store.NewState(docStore, notifier)
	if err := state.Load(ctx); err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	if err := state.EnsureDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	go func() {
		if err := state.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[SYNC] Change feed stopped: %v", err)
		}
	}()

	// Initialize services
	auditLogger := audit.NewLogger(nil)
	staffService := services.NewStaffService(state, auditLogger)
	if created, err := staffService.EnsureBootstrapAdmin(ctx, config.BootstrapAdminConfig()); err != nil {
		log.Fatalf("Failed to create bootstrap administrator: %v", err)
	} else if created {
		log.Println("Bootstrap administrator created")
	}
	receiptService := services.NewReceiptService(state, redisClient, cfg.Currency)

	api := handlers.API{
		Auth:         handlers.NewAuthHandler(services.NewAuthService(staffService, redisClient)),
		Accounts:     handlers.NewAccountHandler(services.NewAccountService(state, auditLogger)),
		Candidates:   handlers.NewCandidateHandler(services.NewCandidateService(state, auditLogger)),
		Staff:        handlers.NewStaffHandler(staffService),
		Transactions: handlers.NewTransactionHandler(services.NewTransactionService(state, auditLogger), receiptService),
		Obligations:  handlers.NewObligationHandler(services.NewObligationService(state, auditLogger)),
		Reports:      handlers.NewReportHandler(services.NewReportService(state, cfg.Currency)),
		Backup:       handlers.NewBackupHandler(services.NewBackupService(state, auditLogger)),
		Receipts:     handlers.NewReceiptHandler(receiptService),
	}

	// Initialize auth middleware with Redis
	mW.InitAuthMiddleware(redisClient, staffService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "healthy",
			"storage": cfg.StorageMode,
			"sync":    redisClient != nil,
		})
	})

	// Swagger documentation
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mW.SecurityHeaders)
		api.Mount(r)
	})

	// Web client
	r.Handle("/*", mW.StaticFileServer(cfg.StaticDir))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
