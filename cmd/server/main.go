package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gbun420/TalentVault-app/internal/config"
	"github.com/Gbun420/TalentVault-app/internal/domain"
	"github.com/Gbun420/TalentVault-app/internal/handler"
	"github.com/Gbun420/TalentVault-app/internal/logger"
	appMiddleware "github.com/Gbun420/TalentVault-app/internal/middleware"
	"github.com/Gbun420/TalentVault-app/internal/repository"
	"github.com/Gbun420/TalentVault-app/internal/service"
	"github.com/Gbun420/TalentVault-app/pkg/crypto"
	"github.com/Gbun420/TalentVault-app/pkg/payment"
	"github.com/Gbun420/TalentVault-app/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load config (.env first when present)
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// Initialize database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Error("migration error", "error", err)
		os.Exit(1)
	}
	log.Info("database connected and migrated")

	// Initialize encryptor
	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		log.Error("encryption error", "error", err)
		os.Exit(1)
	}

	// CV storage is optional; uploads fail with NotConfigured without it.
	var files service.FileStore
	if cfg.CVBucket != "" {
		store, err := storage.NewS3Store(ctx, cfg.CVBucket, cfg.CVEndpoint)
		if err != nil {
			log.Error("storage error", "error", err)
			os.Exit(1)
		}
		files = store
		log.Info("CV storage enabled", "bucket", cfg.CVBucket)
	} else {
		log.Warn("CV_BUCKET not set, CV uploads are disabled")
	}

	gateway, prices := newGateway(cfg)
	log.Info("payment provider selected", "provider", gateway.Name())
	if cfg.ActiveWebhookSecret() == "" {
		log.Warn("webhook secret not set, payment webhooks will be rejected")
	}

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	jobseekerRepo := repository.NewJobseekerRepository(db, enc)
	unlockRepo := repository.NewUnlockRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db, cfg.PlanCacheTTL)
	paymentRepo := repository.NewPaymentRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	resolver := service.NewSessionResolver(cfg.JWTSecret, profileRepo)
	guard := service.NewRouteGuard(cfg.GuardPolicy)
	entitlementSvc := service.NewEntitlementService(unlockRepo, subRepo, planRepo, jobseekerRepo)
	checkoutSvc := service.NewCheckoutService(gateway, paymentRepo, unlockRepo, prices, cfg.SuccessURL(), cfg.CancelURL())
	reconcilerSvc := service.NewReconcilerService(gateway, webhookRepo, paymentRepo, unlockRepo, subRepo)
	moderationSvc := service.NewModerationService(jobseekerRepo, moderationRepo)
	jobseekerSvc := service.NewJobseekerService(jobseekerRepo, unlockRepo, files, cfg.CVLinkTTL, cfg.CVMaxBytes)
	directorySvc := service.NewDirectoryService(jobseekerRepo, unlockRepo, subRepo)
	subSvc := service.NewSubscriptionService(subRepo, planRepo)
	adminSvc := service.NewAdminService(adminRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler(db)
	plansHandler := handler.NewPlansHandler(subSvc)
	paymentHandler := handler.NewPaymentHandler(checkoutSvc, subSvc)
	unlockHandler := handler.NewUnlockHandler(entitlementSvc)
	webhookHandler := handler.NewWebhookHandler(reconcilerSvc)
	moderationHandler := handler.NewModerationHandler(moderationSvc)
	jobseekerHandler := handler.NewJobseekerHandler(jobseekerSvc, cfg.CVMaxBytes)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	adminHandler := handler.NewAdminHandler(adminSvc)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	globalRL := appMiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer globalRL.Stop()
	r.Use(globalRL.Middleware())

	// Checkout reaches the payment processor: 1 req/sec, burst of 5.
	checkoutRL := appMiddleware.NewRateLimiter(1, 5)
	defer checkoutRL.Stop()

	// Public routes (no session)
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)
	r.Post("/api/webhooks/payment", webhookHandler.HandlePayment) // signature only

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(resolver, cfg.SessionCookie))

		r.Get("/api/payment/subscription", paymentHandler.GetSubscription)
		r.Get("/api/jobseekers/{id}/contact", jobseekerHandler.Contact)

		// Jobseeker routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireRole(domain.RoleJobseeker))
			r.Put("/api/jobseeker/profile", jobseekerHandler.SaveProfile)
			r.Post("/api/jobseeker/cv", jobseekerHandler.UploadCV)
		})

		// Employer routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireRole(domain.RoleEmployer, domain.RoleAdmin))
			r.Get("/api/directory", directoryHandler.Search)
			r.Post("/api/unlock", unlockHandler.Unlock)
			r.With(checkoutRL.Middleware()).Post("/api/checkout", paymentHandler.CreateCheckout)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireRole(domain.RoleAdmin))
			r.Post("/api/admin/moderate", moderationHandler.Moderate)
		})
	})

	// Role dashboards
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.PageGuard(guard, resolver, cfg.SessionCookie))

		r.Get("/jobseeker", jobseekerHandler.Dashboard)
		r.Get("/jobseeker/*", jobseekerHandler.Dashboard)
		r.Get("/employer", directoryHandler.EmployerDashboard)
		r.Get("/employer/search", directoryHandler.Search)
		r.Get("/employer/*", directoryHandler.EmployerDashboard)
		r.Get("/admin", adminHandler.Dashboard)
		r.Get("/admin/*", adminHandler.Dashboard)
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("TalentVault backend listening", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newGateway builds the configured payment provider and the price ids the
// checkout orchestrator charges.
func newGateway(cfg *config.Config) (payment.Gateway, service.PriceIDs) {
	prices := service.PriceIDs{
		Unlock:    cfg.UnlockPriceID,
		Limited:   cfg.LimitedPriceID,
		Unlimited: cfg.UnlimitedPriceID,
	}
	if cfg.PaymentProvider != config.ProviderMock {
		return payment.NewStripeGateway(cfg.StripeSecretKey, cfg.WebhookSecret), prices
	}

	if prices.Unlock == "" {
		prices.Unlock = "price_mock_unlock"
	}
	if prices.Limited == "" {
		prices.Limited = "price_mock_limited"
	}
	if prices.Unlimited == "" {
		prices.Unlimited = "price_mock_unlimited"
	}
	catalog := []payment.Price{{ID: prices.Unlock, AmountCents: int64(cfg.UnlockPriceEUR) * 100, Currency: "eur"}}
	for _, p := range domain.DefaultPlans() {
		id := prices.Limited
		if p.PlanCode == domain.PlanUnlimited {
			id = prices.Unlimited
		}
		catalog = append(catalog, payment.Price{ID: id, AmountCents: p.PriceCents, Currency: p.Currency})
	}
	return payment.NewMockGateway(cfg.MockWebhookSecret, catalog...), prices
}
