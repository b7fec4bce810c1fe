package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ec-orders/internal/api"
	"github.com/example/ec-orders/internal/command"
	"github.com/example/ec-orders/internal/config"
	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/infrastructure/kafka"
	"github.com/example/ec-orders/internal/infrastructure/store"
	"github.com/example/ec-orders/internal/logging"
	"github.com/example/ec-orders/internal/metrics"
	"github.com/example/ec-orders/internal/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Must(logging.New(logging.Options{
		Service: "ecshop-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	}))
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Lifecycle events are optional
	var publisher command.Publisher
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		defer producer.Close()
		publisher = producer
		logger.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	} else {
		logger.Info("KAFKA_BROKERS not set, order events disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize domain service and handlers
	orderSvc := order.NewService(st, nil)
	cmdHandler := command.NewHandler(orderSvc, publisher, m)
	queryHandler := query.NewHandler(st)

	router := api.NewRouter(api.RouterConfig{
		Handlers: api.NewHandlers(cmdHandler, queryHandler),
		Logger:   logger,
		Metrics:  m,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore builds the snapshot store for cfg.StoreDriver.
// SQL backends get their schema and, when empty, the sample catalog.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Info("using in-memory store with sample catalog")
		return store.NewMemoryStore(store.SampleSnapshot()), noop, nil

	case config.DriverFile:
		fs := store.NewFileStore(cfg.DBPath)
		logger.Info("using JSON file store", zap.String("path", fs.Path()))
		return fs, noop, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			db  *sql.DB
			ss  *store.SQLStore
			err error
		)
		if cfg.StoreDriver == config.DriverPostgres {
			db, err = store.ConnectPostgres(cfg.DatabaseURL)
			if err != nil {
				return nil, nil, fmt.Errorf("connect postgres: %w", err)
			}
			ss = store.NewPostgresStore(db)
		} else {
			db, err = store.OpenSQLite(cfg.SQLitePath)
			if err != nil {
				return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
			}
			ss = store.NewSQLiteStore(db)
		}
		closeDB := func() { db.Close() }

		if err := ss.EnsureSchema(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
		if err := seedIfEmpty(ctx, ss, logger); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("using SQL store", zap.String("driver", cfg.StoreDriver))
		return ss, closeDB, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func seedIfEmpty(ctx context.Context, st store.SnapshotStore, logger *zap.Logger) error {
	snapshot, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(snapshot.Products) > 0 || len(snapshot.Orders) > 0 {
		return nil
	}

	seed := store.SampleSnapshot()
	if err := st.Save(ctx, seed); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("seeded sample catalog", zap.Int("products", len(seed.Products)))
	return nil
}
