package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	suggestapp "meal_storefront/internal/application/suggestion"
	"meal_storefront/internal/config"
	"meal_storefront/internal/infrastructure/encoding/avro"
	kafkainfra "meal_storefront/internal/infrastructure/messaging/kafka"
	"meal_storefront/internal/infrastructure/persistence/graph"
	"meal_storefront/pkg/logger"
)

// order_projector consumes OrderPlaced events and records them in the
// purchase graph that backs reorder suggestions.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if !cfg.Neo4j.Enabled() {
		log.Fatal("NEO4J_URI is empty (e.g. neo4j://localhost:7687)")
	}
	if cfg.Kafka.OrderTopic == "" {
		log.Fatal("KAFKA_ORDER_TOPIC is empty (e.g. orders.placed)")
	}

	appLogger, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("starting order projector",
		logger.Any("brokers", cfg.Kafka.Brokers),
		logger.String("topic", cfg.Kafka.OrderTopic),
		logger.String("group", cfg.Kafka.ConsumerGroup),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		appLogger.Fatal("neo4j connection failed", logger.Error(err))
	}
	defer graphClient.Close(context.Background())

	if err := graphClient.Health(ctx); err != nil {
		appLogger.Fatal("neo4j is not reachable", logger.Error(err))
	}

	codec, err := avro.NewOrderCodec()
	if err != nil {
		appLogger.Fatal("avro codec init failed", logger.Error(err))
	}

	// Projection only writes the graph; suggestions are served by the api.
	projector := suggestapp.NewService(graph.NewPurchaseGraph(graphClient), nil, appLogger)

	consumer := kafkainfra.NewOrderConsumer(cfg.Kafka, codec, projector, appLogger)
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		appLogger.Fatal("kafka consumer stopped", logger.Error(err))
	}
	appLogger.Info("order projector stopped")
}
