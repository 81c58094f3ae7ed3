// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain/ports/adapter"
	payAdapters "ftth-billing/internal/infra/adapters/payment"
	routerAdapters "ftth-billing/internal/infra/adapters/router"
	pg "ftth-billing/internal/infra/db/postgres"
	"ftth-billing/internal/infra/logging"
	"ftth-billing/internal/infra/metrics"
	"ftth-billing/internal/infra/notify"
	red "ftth-billing/internal/infra/redis"
	"ftth-billing/internal/infra/sched"
	"ftth-billing/internal/infra/web"
	"ftth-billing/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway and router)")
	byLocation := flag.Bool("suspend-by-location", false, "partition suspension runs by service area")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go samplePoolStats(ctx, pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	customerRepo := pg.NewCustomerRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	invoiceRepo := pg.NewInvoiceRepo(pool)
	brandRepo := pg.NewBrandRepo(pool)
	packageRepo := pg.NewPackageRepoCacheDecorator(pg.NewPackageRepo(pool), redisClient, cfg.Redis.TTL)
	technicalRepo := pg.NewTechnicalRepo(pool)

	// ---- External adapters ----
	var gateway adapter.PaymentGateway
	var routerSvc adapter.RouterService
	if cfg.Runtime.Dev {
		gateway = payAdapters.NewNoopPaymentGateway()
		routerSvc = routerAdapters.NewNoopRouterService()
	} else {
		gateway, err = payAdapters.NewXenditGateway(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.CallbackURL, cfg.Gateway.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("payment gateway")
		}
		logger.Info().
			Str("api_key", logging.Redact(cfg.Gateway.APIKey, cfg.Runtime.Dev)).
			Msg("payment gateway configured")
		routerSvc, err = routerAdapters.NewMikrotikClient(cfg.Router.Username, cfg.Router.Password, cfg.Router.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("router client")
		}
	}

	// ---- Alerts ----
	sinks := []adapter.AlertNotifier{notify.NewRedisChannelNotifier(redisClient, cfg.Redis.AlertChannel)}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.AdminChatIDs, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
		sinks = append(sinks, tg)
	}
	notifier := notify.NewMultiNotifier(logger, sinks...)

	// ---- Use cases ----
	invoiceUC := usecase.NewInvoiceUseCase(cfg.Billing, txManager, customerRepo, subRepo, invoiceRepo, brandRepo, packageRepo, technicalRepo, gateway, notifier, logger)
	suspendUC := usecase.NewSuspendUseCase(cfg.Billing, txManager, subRepo, invoiceRepo, technicalRepo, routerSvc, notifier, logger)
	paymentUC := usecase.NewPaymentUseCase(cfg.Gateway.PaidLookbackDays, txManager, subRepo, invoiceRepo, technicalRepo, gateway, routerSvc, logger)
	reminderUC := usecase.NewReminderUseCase(cfg.Billing, customerRepo, invoiceRepo, notifier, logger)
	routerSyncUC := usecase.NewRouterSyncUseCase(cfg.Billing.BatchSize, subRepo, technicalRepo, routerSvc, logger)
	statsUC := usecase.NewStatsUseCase(customerRepo, subRepo, invoiceRepo, technicalRepo, logger)

	// ---- Scheduler ----
	billingCron, err := sched.NewBillingCron(cfg.Scheduler, invoiceUC, suspendUC, reminderUC, *byLocation, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler")
	}
	billingCron.Start()

	reconciler := sched.NewReconcileWorker(paymentUC, cfg.Scheduler.ReconcileInterval, logger)
	go reconciler.Start(ctx)
	invoiceRetry := sched.NewInvoiceRetryWorker(invoiceUC, cfg.Scheduler.InvoiceRetryTick, logger)
	go invoiceRetry.Start(ctx)
	routerSync := sched.NewRouterSyncWorker(routerSyncUC, cfg.Scheduler.RouterRetryInterval, logger)
	go routerSync.Start(ctx)

	// ---- HTTP ----
	suspend := suspendJob(suspendUC, *byLocation)
	jobs := map[string]sched.JobFunc{
		"invoice-generation": invoiceUC.GenerateDue,
		"suspension":         suspend,
		"reminders":          reminderUC.RemindUpcoming,
	}
	srv := web.NewServer(statsUC, paymentUC, billingCron, jobs, cfg.Admin.APIKey, cfg.Gateway.WebhookToken, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: srv.Handler()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	<-billingCron.Stop().Done()
}

func suspendJob(suspendUC usecase.SuspendUseCase, byLocation bool) sched.JobFunc {
	if byLocation {
		return suspendUC.SuspendOverdueByLocation
	}
	return suspendUC.SuspendOverdue
}

// samplePoolStats feeds the connection-pool gauges every 30 seconds.
func samplePoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat := pool.Stat()
			metrics.SetDBPoolStats(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())
		}
	}
}
