package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homeroomapp/homeroom/internal/archive"
	"github.com/homeroomapp/homeroom/internal/config"
	"github.com/homeroomapp/homeroom/internal/handlers"
	"github.com/homeroomapp/homeroom/internal/llm"
	"github.com/homeroomapp/homeroom/internal/mailer"
	"github.com/homeroomapp/homeroom/internal/metrics"
	"github.com/homeroomapp/homeroom/internal/middleware"
	"github.com/homeroomapp/homeroom/internal/pocketbase"
	"github.com/homeroomapp/homeroom/internal/ratelimit"
	"github.com/homeroomapp/homeroom/internal/usage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting homeroom",
		"port", cfg.Port,
		"llm_model", cfg.LLMModel,
		"llm_configured", cfg.LLMAPIKey != "",
		"baas_configured", cfg.BaaSURL != "",
		"admin_enabled", cfg.AdminEnabled(),
	)

	// Initialize the local usage ledger
	ledger, err := usage.Initialize(cfg.LedgerPath)
	if err != nil {
		slog.Error("failed to initialize usage ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	slog.Info("usage ledger initialized", "path", cfg.LedgerPath)

	// Connect to the community data store
	var pb *pocketbase.Client
	if cfg.BaaSURL != "" {
		pb, err = pocketbase.NewClient(pocketbase.ClientConfig{BaseURL: cfg.BaaSURL})
		if err != nil {
			slog.Error("failed to create data store client", "error", err)
			os.Exit(1)
		}

		if cfg.BaaSIdentity != "" {
			authCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := pb.AuthWithPassword(authCtx, "users", cfg.BaaSIdentity, cfg.BaaSPassword); err != nil {
				slog.Error("failed to authenticate with data store", "error", err)
				cancel()
				os.Exit(1)
			}
			cancel()
			slog.Info("authenticated with data store", "url", cfg.BaaSURL)
		}
	} else {
		slog.Warn("no data store configured, community endpoints disabled")
	}

	// LLM provider client
	llmClient := llm.NewClient(llm.Config{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	})
	if !llmClient.Configured() {
		slog.Warn("no LLM API key configured, generation endpoints will fail until one is set")
	}

	// Email provider client
	mail := mailer.NewClient(mailer.Config{APIKey: cfg.EmailAPIKey})
	if !mail.Configured() {
		slog.Warn("no email API key configured, report sends will be simulated")
	}

	// Optional lesson archive
	var lessonArchive handlers.LessonArchiver
	if cfg.ArchiveBucket != "" {
		archCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		arch, err := archive.New(archCtx, archive.Config{
			Bucket:          cfg.ArchiveBucket,
			Region:          cfg.ArchiveRegion,
			Endpoint:        cfg.ArchiveEndpoint,
			AccessKeyID:     cfg.ArchiveAccessKeyID,
			SecretAccessKey: cfg.ArchiveSecretAccessKey,
			PathStyle:       cfg.ArchivePathStyle,
		})
		cancel()
		if err != nil {
			slog.Error("failed to initialize lesson archive", "error", err)
			os.Exit(1)
		}
		lessonArchive = arch
	}

	// Record start time for health checks
	startTime := time.Now()

	// Setup HTTP router
	mux := http.NewServeMux()

	// LLM-backed endpoints (behind admission control)
	mux.HandleFunc("/api/lessons/generate", handlers.GenerateLessonHandler(llmClient, ledger, pb, lessonArchive))
	mux.HandleFunc("/api/tutor", handlers.TutorHandler(llmClient, ledger))

	// Reports
	mux.HandleFunc("/api/reports/send", handlers.SendReportHandler(cfg, mail))

	// Community data
	mux.HandleFunc("/api/families", handlers.FamiliesHandler(pb))
	mux.HandleFunc("/api/families/", handlers.FamilyHandler(pb))
	mux.HandleFunc("/api/children", handlers.ChildrenHandler(pb))
	mux.HandleFunc("/api/lessons", handlers.ListLessonsHandler(pb))
	mux.HandleFunc("/api/map/families", handlers.MapFeedHandler(pb))

	// Admin dashboard
	if cfg.AdminEnabled() {
		adminAuth := middleware.AdminAuth(cfg)
		mux.Handle("/admin/api/dashboard", adminAuth(handlers.AdminDashboardHandler(ledger, pb)))
		slog.Info("admin dashboard enabled", "username", cfg.AdminUsername)
	}

	// Operational endpoints
	mux.HandleFunc("/health", handlers.HealthHandler(ledger, llmClient, startTime))
	mux.Handle("/metrics", promhttp.Handler())

	// Create rate limiter
	limiter := ratelimit.NewFixedWindow(
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
	)
	defer limiter.Stop()

	// Wrap with middleware (order: Recovery -> Logging -> Security -> Metrics -> RateLimit -> handlers)
	handler := middleware.RecoveryMiddleware(
		middleware.LoggingMiddleware(
			middleware.SecurityHeadersMiddleware(
				metrics.Middleware(
					middleware.RateLimitMiddleware(limiter)(mux),
				),
			),
		),
	)

	// Setup HTTP server. No WriteTimeout: LLM round trips can be slow and
	// the completion client sets no deadline of its own.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				slog.Error("forced shutdown failed", "error", err)
			}
		}

		slog.Info("server stopped")
	}
}
