package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farmstand/backend/internal/config"
	"github.com/farmstand/backend/kafka"
	"github.com/farmstand/backend/pkg/logger"
	"github.com/farmstand/backend/pkg/tracing"
)

// The alerts worker consumes low-stock events and surfaces them to the
// operations channel. Today that channel is the structured log stream;
// the handler is where a pager or email integration would plug in.
func main() {
	cfg := config.Load()

	serviceName := cfg.ServiceName + "-alerts-worker"
	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Msg("Starting alerts worker")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "farmstand-alerts-worker", []string{kafka.TopicInventoryAlerts})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeLowStockAlert, handleLowStockAlert)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down alerts worker...")
	cancel()
}

func handleLowStockAlert(ctx context.Context, event kafka.LowStockAlertEvent) error {
	logEvent := logger.Warn(ctx)
	if event.AlertType == "out_of_stock" {
		logEvent = logger.Error(ctx)
	}

	logEvent.
		Str("event_id", event.EventID).
		Str("alert_id", event.AlertID).
		Str("inventory_item_id", event.InventoryItemID).
		Str("product_id", event.ProductID).
		Str("alert_type", event.AlertType).
		Int("available_stock", event.AvailableStock).
		Int("minimum_stock", event.MinimumStock).
		Msg(event.Message)

	return nil
}
