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

	"github.com/benx421/retail-bank/internal/config"
	"github.com/benx421/retail-bank/internal/db"
	"github.com/benx421/retail-bank/internal/externalbank"
	"github.com/benx421/retail-bank/internal/handlers"
	"github.com/benx421/retail-bank/internal/idgen"
	"github.com/benx421/retail-bank/internal/lock"
	"github.com/benx421/retail-bank/internal/observability"
	"github.com/benx421/retail-bank/internal/policy"
	"github.com/benx421/retail-bank/internal/repository"
	"github.com/benx421/retail-bank/internal/repository/memory"
	"github.com/benx421/retail-bank/internal/service"
	"github.com/benx421/retail-bank/internal/worker"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// stores bundles the repositories of the selected driver
type stores struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	external     repository.ExternalTransferRepository
	idempotency  repository.IdempotencyRepository
	health       service.HealthChecker
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bank stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting bank api",
		"port", cfg.Server.Port,
		"store", cfg.Database.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := policy.ParseCatalog(cfg.Bank.Policies)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	limits := policy.ParseLimits(cfg.Bank.DailyLimits, logger)
	banks := externalbank.ParseRegistry(cfg.Bank.ServiceBanks, externalbank.Builtins(externalbank.SimulatedConfig{
		FailureRate:  cfg.App.SimBankFailureRate,
		MinLatencyMS: cfg.App.SimBankMinLatencyMS,
		MaxLatencyMS: cfg.App.SimBankMaxLatencyMS,
	}, logger), logger)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	metrics := observability.NewMetrics()

	manager := service.NewAccountManager(
		st.accounts,
		st.transactions,
		catalog,
		limits,
		idgen.New(st.transactions),
		locker,
		logger,
	)
	external := service.NewExternalTransferService(manager, st.external, banks, metrics, logger)
	manager.SetExternalTransferInitiator(external)
	reports := service.NewReportService(st.accounts, st.transactions, st.external, catalog, logger)

	if cfg.Bank.MigratePolicies {
		repaired, err := manager.AttachMissingPolicies(ctx)
		if err != nil {
			logger.Warn("policy migration incomplete", "repaired", repaired, "error", err)
		}
	}

	jobs := worker.New(external, st.idempotency, metrics, worker.Config{
		TransferInterval: cfg.App.ExternalTransferInterval,
		IdempotencyTTL:   cfg.App.IdempotencyTTL,
	}, logger)

	handler := handlers.NewHandler(manager, external, reports, st.health, logger)
	server := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: handlers.NewRouter(handler, handlers.RouterConfig{
			Idempotency:        st.idempotency,
			Metrics:            metrics,
			Logger:             logger,
			RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := jobs.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		jobs.Stop()
		return nil
	})

	g.Go(func() error {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.Database.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		store := memory.NewStore()
		return &stores{
			accounts:     store.Accounts(),
			transactions: store.Transactions(),
			external:     store.ExternalTransfers(),
			idempotency:  store.Idempotency(),
			health:       store,
			close:        func() {},
		}, nil
	}

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &stores{
		accounts:     repository.NewAccountRepository(database),
		transactions: repository.NewTransactionRepository(database),
		external:     repository.NewExternalTransferRepository(database),
		idempotency:  repository.NewIdempotencyRepository(database),
		health:       database,
		close: func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		},
	}, nil
}

// newLocker uses Redis when configured so several instances share account locks
func newLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (lock.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return lock.NewLocal(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("using redis account locks", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.LockTTL)

	return lock.NewRedis(client, "retailbank:lock", cfg.Redis.LockTTL), func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}, nil
}
