package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/config"
	"github.com/jao1224/crmimobiliaria-sub000/internal/database"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/handler"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/middleware"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/router"
	"github.com/jao1224/crmimobiliaria-sub000/internal/jobs"
	"github.com/jao1224/crmimobiliaria-sub000/internal/ledger"
	"github.com/jao1224/crmimobiliaria-sub000/internal/logger"
	"github.com/jao1224/crmimobiliaria-sub000/internal/repository"
	"github.com/jao1224/crmimobiliaria-sub000/internal/service"
	"github.com/jao1224/crmimobiliaria-sub000/internal/storage"
	"go.uber.org/zap"
)

// @title Imobiliaria Negotiation API
// @version 1.0
// @description Back-office API for real estate negotiation, settlement and financing management

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the accounting ledger connection (optional, read-only).
	// The app continues without it; commission reconciliation then only
	// runs the overdue sweep.
	var ledgerClient *ledger.Client
	if cfg.Ledger.Enabled {
		ledgerClient, err = ledger.NewClient(&cfg.Ledger, log)
		if err != nil {
			log.Warn("Ledger connection failed, continuing without it",
				zap.Error(err),
			)
		} else if ledgerClient != nil {
			log.Info("Ledger connected successfully",
				zap.Int("max_open_conns", cfg.Ledger.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Ledger.QueryTimeout),
			)
		}
	} else {
		log.Info("Ledger not configured, skipping",
			zap.Bool("enabled", cfg.Ledger.Enabled),
		)
	}

	// Initialize repositories
	negotiationRepo := repository.NewNegotiationRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	captureRepo := repository.NewCaptureRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	financingRepo := repository.NewFinancingRepository(db)
	serviceRequestRepo := repository.NewServiceRequestRepository(db)
	processRepo := repository.NewProcessRepository(db)
	codeSeqRepo := repository.NewCodeSequenceRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	negotiationService := service.NewNegotiationService(negotiationRepo, propertyRepo, clientRepo, userRepo, codeSeqRepo, log)
	settlementService := service.NewSettlementService(negotiationRepo, cfg.Settlement.CommissionRate, log, db)
	financingService := service.NewFinancingService(financingRepo, serviceRequestRepo, negotiationRepo, log)
	activityService := service.NewActivityService(captureRepo, negotiationRepo, log)
	processService := service.NewProcessService(processRepo, negotiationRepo, log)
	commissionService := service.NewCommissionService(commissionRepo, log)
	captureService := service.NewCaptureService(captureRepo, log)
	propertyService := service.NewPropertyService(propertyRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	documentService := service.NewDocumentService(negotiationRepo, fileStorage, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	negotiationHandler := handler.NewNegotiationHandler(negotiationService, settlementService, log)
	financingHandler := handler.NewFinancingHandler(financingService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)
	propertyHandler := handler.NewPropertyHandler(propertyService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	captureHandler := handler.NewCaptureHandler(captureService, log)
	processHandler := handler.NewProcessHandler(processService, log)
	commissionHandler := handler.NewCommissionHandler(commissionService, log)
	documentHandler := handler.NewDocumentHandler(documentService, cfg.Storage.MaxUploadSizeMB, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		ledgerClient,
		authMiddleware,
		rateLimiter,
		negotiationHandler,
		financingHandler,
		activityHandler,
		propertyHandler,
		clientHandler,
		captureHandler,
		processHandler,
		commissionHandler,
		documentHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if ledgerClient != nil {
		scheduler = jobs.NewScheduler(log)

		ledgerSyncService := service.NewLedgerSyncService(commissionRepo, ledgerClient, log)
		if err := jobs.RegisterCommissionSyncJob(
			scheduler,
			ledgerSyncService,
			log,
			cfg.Jobs.CommissionSyncCron,
			cfg.Jobs.SyncTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register commission sync job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with commission sync job",
				zap.String("cron_expr", cfg.Jobs.CommissionSyncCron),
				zap.Duration("timeout", cfg.Jobs.SyncTimeoutDuration()),
			)
		}
	} else {
		log.Info("Commission sync disabled",
			zap.Bool("ledger_enabled", cfg.Ledger.Enabled),
			zap.Bool("ledger_client_available", ledgerClient != nil),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close ledger connection if initialized
		if ledgerClient != nil {
			if err := ledgerClient.Close(); err != nil {
				log.Warn("Error closing ledger connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
