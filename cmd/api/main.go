package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outreach_portal_backend/internal/adapters"
	"outreach_portal_backend/internal/adapters/storage"
	"outreach_portal_backend/internal/analytics"
	"outreach_portal_backend/internal/audit"
	"outreach_portal_backend/internal/auth"
	"outreach_portal_backend/internal/automation"
	"outreach_portal_backend/internal/calendar"
	"outreach_portal_backend/internal/campaigns"
	"outreach_portal_backend/internal/dashboard"
	"outreach_portal_backend/internal/documents"
	"outreach_portal_backend/internal/emails"
	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/internal/exports"
	apphttp "outreach_portal_backend/internal/http"
	"outreach_portal_backend/internal/http/router"
	"outreach_portal_backend/internal/leads"
	"outreach_portal_backend/internal/msauth"
	"outreach_portal_backend/internal/msgraph"
	"outreach_portal_backend/internal/network"
	"outreach_portal_backend/internal/notifications"
	"outreach_portal_backend/internal/pipeline"
	"outreach_portal_backend/internal/proposals"
	"outreach_portal_backend/internal/reminders"
	"outreach_portal_backend/internal/search"
	"outreach_portal_backend/internal/sla"
	"outreach_portal_backend/internal/team"
	"outreach_portal_backend/internal/templates"
	"outreach_portal_backend/platform/config"
	"outreach_portal_backend/platform/db"
	"outreach_portal_backend/platform/logger"
	"outreach_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Microsoft Graph client for mail send and sync
	graph := msgraph.NewClient(cfg, nil)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	msauthModule := msauth.NewModule(pool, graph, val, log)
	leadsModule := leads.NewModule(pool, eventBus, val, log)
	pipelineModule := pipeline.NewModule(pool, eventBus, val, log)
	emailsModule := emails.NewModule(pool, graph, msauthModule.Service(), eventBus, val, log)
	proposalsModule := proposals.NewModule(pool, eventBus, val, log)
	remindersModule := reminders.NewModule(pool, val)
	calendarModule := calendar.NewModule(pool, val)
	templatesModule := templates.NewModule(pool, val)
	campaignsModule := campaigns.NewModule(pool, val)
	teamModule := team.NewModule(pool, val)
	automationModule := automation.NewModule(pool, val, log)
	notificationsModule := notifications.NewModule(pool, eventBus)
	slaModule := sla.NewModule(pool, eventBus, val, log)
	auditModule := audit.NewModule(pool, eventBus)
	exportsModule := exports.NewModule(pool, eventBus)
	searchModule := search.NewModule(pool, log)
	networkModule := network.NewModule(pool, val)
	dashboardModule := dashboard.NewModule(pool)
	analyticsModule := analytics.NewModule(pool)

	// Cross-module ports, wired through adapters so modules only depend on
	// their own interfaces.
	leadsModule.Service().SetReminderCreator(remindersModule)
	emailsModule.Service().SetLeadDirectory(adapters.NewEmailsLeadDirectory(leadsModule.Service()))
	proposalsModule.Service().SetPorts(adapters.NewProposalsLeadDirectory(leadsModule.Service()), emailsModule.Service())
	automationModule.Service().SetPorts(adapters.NewAutomationLeadDirectory(leadsModule.Service()), remindersModule, notificationsModule)

	if err := pipelineModule.Seed(ctx); err != nil {
		log.Error("failed to seed pipeline stages", "error", err)
		panic("failed to seed pipeline stages: " + err.Error())
	}

	modules := []apphttp.Module{
		authModule,
		msauthModule,
		leadsModule,
		pipelineModule,
		emailsModule,
		proposalsModule,
		remindersModule,
		calendarModule,
		templatesModule,
		campaignsModule,
		teamModule,
		automationModule,
		notificationsModule,
		slaModule,
		auditModule,
		exportsModule,
		searchModule,
		networkModule,
		dashboardModule,
		analyticsModule,
	}

	// Document storage needs MinIO; the rest of the portal runs without it.
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		documentsModule := documents.NewModule(pool, store, cfg.GetMinioBucketDocuments(), log)
		if err := withRetry(ctx, log, "ensure documents bucket", 5, 2*time.Second, func() error {
			return documentsModule.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure documents bucket exists", "error", err)
			panic("failed to ensure documents bucket exists: " + err.Error())
		}
		modules = append(modules, documentsModule)
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketDocuments())
	} else {
		log.Warn("minio not configured; documents module disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
