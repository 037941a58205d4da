package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jao1224/crmimobiliaria-sub000/internal/auth"
	"github.com/jao1224/crmimobiliaria-sub000/internal/config"
	"github.com/jao1224/crmimobiliaria-sub000/internal/database"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/handler"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/middleware"
	"github.com/jao1224/crmimobiliaria-sub000/internal/ledger"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	db                 *gorm.DB
	ledgerClient       *ledger.Client
	authMiddleware     *auth.Middleware
	rateLimiter        *middleware.RateLimiter
	negotiationHandler *handler.NegotiationHandler
	financingHandler   *handler.FinancingHandler
	activityHandler    *handler.ActivityHandler
	propertyHandler    *handler.PropertyHandler
	clientHandler      *handler.ClientHandler
	captureHandler     *handler.CaptureHandler
	processHandler     *handler.ProcessHandler
	commissionHandler  *handler.CommissionHandler
	documentHandler    *handler.DocumentHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	ledgerClient *ledger.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	negotiationHandler *handler.NegotiationHandler,
	financingHandler *handler.FinancingHandler,
	activityHandler *handler.ActivityHandler,
	propertyHandler *handler.PropertyHandler,
	clientHandler *handler.ClientHandler,
	captureHandler *handler.CaptureHandler,
	processHandler *handler.ProcessHandler,
	commissionHandler *handler.CommissionHandler,
	documentHandler *handler.DocumentHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		ledgerClient:       ledgerClient,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		negotiationHandler: negotiationHandler,
		financingHandler:   financingHandler,
		activityHandler:    activityHandler,
		propertyHandler:    propertyHandler,
		clientHandler:      clientHandler,
		captureHandler:     captureHandler,
		processHandler:     processHandler,
		commissionHandler:  commissionHandler,
		documentHandler:    documentHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// Check the accounting ledger when enabled. A failing ledger does
		// not flip readiness; reconciliation degrades gracefully.
		if rt.ledgerClient != nil && rt.ledgerClient.IsEnabled() {
			if err := rt.ledgerClient.HealthCheck(r.Context()); err != nil {
				checks["ledger"] = map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error,
				}
			} else {
				checks["ledger"] = map[string]interface{}{
					"status": "healthy",
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Negotiations
			r.Route("/negotiations", func(r chi.Router) {
				r.Get("/", rt.negotiationHandler.List)
				r.Post("/", rt.negotiationHandler.Create)
				r.Get("/archived", rt.negotiationHandler.ListArchived)
				r.Get("/deleted", rt.negotiationHandler.ListDeleted)
				r.Get("/{id}", rt.negotiationHandler.GetByID)
				r.Put("/{id}", rt.negotiationHandler.Update)
				r.Delete("/{id}", rt.negotiationHandler.Delete)

				// Lifecycle endpoints
				r.Post("/{id}/stage", rt.negotiationHandler.MoveStage)
				r.Post("/{id}/contract-status", rt.negotiationHandler.MoveContractStatus)
				r.Post("/{id}/generate-contract", rt.negotiationHandler.GenerateContract)
				r.Post("/{id}/complete", rt.negotiationHandler.CompleteSale)
				r.Post("/{id}/archive", rt.negotiationHandler.Archive)
				r.Post("/{id}/unarchive", rt.negotiationHandler.Unarchive)
				r.Post("/{id}/restore", rt.negotiationHandler.Restore)

				// Sub-resources
				r.Get("/{id}/commissions", rt.commissionHandler.GetByNegotiation)
				r.Post("/{id}/documents", rt.documentHandler.Upload)
			})

			// Service requests and financing
			r.Route("/service-requests", func(r chi.Router) {
				r.Get("/", rt.financingHandler.ListRequests)
				r.Post("/", rt.financingHandler.CreateRequest)
				r.Post("/{id}/accept", rt.financingHandler.AcceptRequest)
			})
			r.Route("/financing", func(r chi.Router) {
				r.Get("/", rt.financingHandler.List)
				r.Get("/{id}", rt.financingHandler.GetByID)
				r.Put("/{id}", rt.financingHandler.Update)
			})

			// Activity board
			r.Route("/activities", func(r chi.Router) {
				r.Get("/board", rt.activityHandler.GetBoard)
				r.Post("/move", rt.activityHandler.Move)
			})

			// Properties
			r.Route("/properties", func(r chi.Router) {
				r.Get("/", rt.propertyHandler.List)
				r.Post("/", rt.propertyHandler.Create)
				r.Get("/{id}", rt.propertyHandler.GetByID)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
			})

			// Captures
			r.Route("/captures", func(r chi.Router) {
				r.Get("/", rt.captureHandler.List)
				r.Post("/", rt.captureHandler.Create)
				r.Get("/{id}", rt.captureHandler.GetByID)
			})

			// Processes
			r.Route("/processes", func(r chi.Router) {
				r.Get("/", rt.processHandler.List)
				r.Post("/", rt.processHandler.Create)
				r.Get("/{id}", rt.processHandler.GetByID)
				r.Put("/{id}", rt.processHandler.Update)
			})

			// Commissions
			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", rt.commissionHandler.List)
				r.Get("/{id}", rt.commissionHandler.GetByID)
			})

			// Documents
			r.Get("/documents/download", rt.documentHandler.Download)
		})
	})

	return r
}
