package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-ledger/internal/config"
	"github.com/xavierca1/lead-ledger/internal/infra/database"
	"github.com/xavierca1/lead-ledger/internal/infra/http/handlers"
	"github.com/xavierca1/lead-ledger/internal/infra/http/router"
	"github.com/xavierca1/lead-ledger/internal/infra/integration/kommo"
	"github.com/xavierca1/lead-ledger/internal/infra/mail"
	"github.com/xavierca1/lead-ledger/internal/infra/queue"
	"github.com/xavierca1/lead-ledger/internal/infra/worker"
	"github.com/xavierca1/lead-ledger/internal/logger"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.Dialect(), cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, cfg.Dialect()); err != nil {
		log.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	leadRepo := database.NewLeadRepository(db, cfg.Dialect())

	// 2. Events and CRM sync
	var (
		publisher usecase.LeadEventPublisher
		amqpConn  *amqp091.Connection
	)
	if cfg.EventsEnabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		amqpConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)

		if cfg.CRMEnabled() {
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.Error("failed to open consumer channel", "error", err)
				os.Exit(1)
			}
			crm := kommo.NewClient(cfg.KommoBaseURL, cfg.KommoAPIToken, cfg.KommoStatusID, log)
			crmWorker := queue.NewWorker(consumerCh, crm, log)
			go func() {
				if err := crmWorker.Start(ctx, queue.CRMSyncQueue); err != nil {
					log.Error("crm sync worker exited", "error", err)
				}
			}()
		}
	} else {
		log.Warn("RABBITMQ_URL not set, lead events disabled")
	}

	// 3. Use cases
	clock := usecase.SystemClock(cfg.Location())
	registerUC := usecase.NewRegisterLeadUseCase(leadRepo, publisher, clock, log)
	markUC := usecase.NewMarkLeadStatusUseCase(leadRepo, publisher, clock, log)
	listUC := usecase.NewListLeadsUseCase(leadRepo)
	analytics := usecase.NewAnalytics(leadRepo, clock)
	reportUC := usecase.NewBuildReportUseCase(leadRepo, clock, log)

	// 4. Background workers
	var mailer worker.ReportMailer
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	}
	reportWorker := worker.NewReportWorker(reportUC, mailer, cfg.ReportRecipients, usecase.BuildReportInput{
		MarketingSpend: cfg.ReportMarketingSpend,
		WindowDays:     &cfg.ReportWindowDays,
	}, cfg.ReportInterval, log)
	go reportWorker.Start(ctx)

	unprocessedWorker := worker.NewUnprocessedWorker(listUC, cfg.UnprocessedCheckInterval, clock, log)
	go unprocessedWorker.Start(ctx)

	// 5. Metrics server
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	// 6. HTTP API
	h := router.Handlers{
		Lead:      handlers.NewLeadHandler(registerUC, markUC, listUC),
		Analytics: handlers.NewAnalyticsHandler(analytics),
		Report:    handlers.NewReportHandler(reportUC, cfg.ReportMarketingSpend, cfg.ReportWindowDays),
		Health:    handlers.NewHealthHandler(db, amqpConn, version),
	}
	apiServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(h, router.Options{
			AllowedOrigins:     cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		}, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		log.Info("starting lead ledger api", "addr", apiServer.Addr, "driver", cfg.DBDriver, "version", version)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown failed", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown failed", "error", err)
	}
}
