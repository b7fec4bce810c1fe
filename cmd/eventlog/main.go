package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ec-orders/internal/config"
	"github.com/example/ec-orders/internal/infrastructure/kafka"
	"github.com/example/ec-orders/internal/logging"
	"github.com/example/ec-orders/internal/projection"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Must(logging.New(logging.Options{
		Service: "ecshop-eventlog",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	}))
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if !cfg.KafkaEnabled() {
		logger.Fatal("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("consuming order events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.ConsumerGroup),
	)

	projector := projection.NewProjector(logger)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ConsumerGroup, logger)
	defer consumer.Close()

	if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}

	logger.Info("shutting down", zap.Int("orders_tracked", len(projector.Orders())))
}
