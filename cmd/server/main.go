package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/agentledger/internal/adapter/http"
	"github.com/iho/agentledger/internal/adapter/http/handler"
	"github.com/iho/agentledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/agentledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/agentledger/internal/adapter/repository/redis"
	"github.com/iho/agentledger/internal/infrastructure/config"
	"github.com/iho/agentledger/internal/infrastructure/eventpublisher"
	"github.com/iho/agentledger/internal/infrastructure/logger"
	"github.com/iho/agentledger/internal/infrastructure/metrics"
	"github.com/iho/agentledger/internal/infrastructure/postgres"
	"github.com/iho/agentledger/internal/infrastructure/redis"
	"github.com/iho/agentledger/internal/infrastructure/scheduler"
	"github.com/iho/agentledger/internal/usecase"
)

const (
	rateLimitSweepSchedule = "@every 10m"
	rateLimitIdle          = 30 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return err
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Publishers: []eventpublisher.Publisher{
			eventpublisher.NewLogPublisher(log),
			eventpublisher.NewMetricsPublisher(m),
		},
		Logger:     log,
		Metrics:    m,
		BufferSize: cfg.NotifyBuffer,
	})

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	bulletinRepo := postgresRepo.NewBulletinRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	revaluationRepo := postgresRepo.NewRevaluationRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, cache, publisher, idGen).WithCacheTTL(cfg.CacheTTL)
	journalUC := usecase.NewJournalUseCase(txManager, accountRepo, journalRepo, retrier, publisher, idGen, log)
	commissionUC := usecase.NewCommissionUseCase(txManager, bulletinRepo, publisher, idGen)
	postingUC := usecase.NewTransferPostingUseCase(journalUC, commissionUC, cfg.CommissionAccountCode, log)
	revaluationUC := usecase.NewRevaluationUseCase(txManager, journalUC, revaluationRepo, retrier, publisher, idGen, log)
	reportUC := usecase.NewReportUseCase(accountRepo, journalRepo, cfg.DefaultCurrency)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, ledgerRepo)
	statementUC := usecase.NewStatementUseCase(transferRepo, cfg.DefaultCurrency)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithHitCounter(m.RateLimitHits)

	sched := scheduler.New(log, time.Minute)
	if err := registerJobs(sched, cfg, reconciliationUC, limiter, m, log); err != nil {
		return err
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:         handler.NewAccountHandler(accountUC),
		JournalHandler:         handler.NewJournalHandler(journalUC),
		TransferPostingHandler: handler.NewTransferPostingHandler(postingUC),
		ReportHandler:          handler.NewReportHandler(reportUC, reconciliationUC),
		CommissionHandler:      handler.NewCommissionHandler(commissionUC),
		RevaluationHandler:     handler.NewRevaluationHandler(revaluationUC),
		StatementHandler:       handler.NewStatementHandler(statementUC),
		HealthHandler:          handler.NewHealthHandler(pool, redisClient),
		Logger:                 log,
		Metrics:                m,
		Gatherer:               reg,
		RateLimiter:            limiter,
		IdempotencyStore:       idempotencyStore,
		IdempotencyTTL:         cfg.IdempotencyTTL,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return publisher.Start(gctx)
	})

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// registerJobs adds the background jobs. An empty consistency schedule
// disables the periodic ledger check.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	reconciler scheduler.Reconciler,
	limiter *middleware.RateLimiter,
	m *metrics.Metrics,
	log zerolog.Logger,
) error {
	if cfg.ConsistencySchedule != "" {
		if err := sched.AddJob(cfg.ConsistencySchedule, scheduler.NewConsistencyJob(reconciler, m, log)); err != nil {
			return fmt.Errorf("schedule consistency check: %w", err)
		}
	}

	sweep := scheduler.NewFuncJob("rate_limit_sweep", func(ctx context.Context) error {
		if removed := limiter.Sweep(rateLimitIdle); removed > 0 {
			log.Debug().Int("removed", removed).Int("tracked", limiter.Len()).Msg("rate limiters swept")
		}
		return nil
	})
	return sched.AddJob(rateLimitSweepSchedule, sweep)
}
