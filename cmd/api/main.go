package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	availapp "meal_storefront/internal/application/availability"
	cartapp "meal_storefront/internal/application/cart"
	"meal_storefront/internal/application/checkout"
	customapp "meal_storefront/internal/application/customization"
	"meal_storefront/internal/application/payment"
	pricingapp "meal_storefront/internal/application/pricing"
	"meal_storefront/internal/application/reorder"
	suggestapp "meal_storefront/internal/application/suggestion"
	"meal_storefront/internal/config"
	"meal_storefront/internal/domain/repository"
	"meal_storefront/internal/infrastructure/encoding/avro"
	"meal_storefront/internal/infrastructure/http/catalogapi"
	ginserver "meal_storefront/internal/infrastructure/http/gin"
	kafkainfra "meal_storefront/internal/infrastructure/messaging/kafka"
	"meal_storefront/internal/infrastructure/persistence/file"
	"meal_storefront/internal/infrastructure/persistence/graph"
	"meal_storefront/internal/infrastructure/persistence/postgres"
	"meal_storefront/internal/interfaces/http/handler"
	"meal_storefront/internal/interfaces/http/router"
	"meal_storefront/pkg/logger"
)

// catalogSource is everything the storefront reads about products,
// delivery areas, addresses, payment methods and substitutions.
type catalogSource interface {
	repository.ProductRepository
	repository.DeliveryAreaRepository
	repository.AddressRepository
	repository.PaymentMethodRepository
	repository.SubstitutionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	appLogger, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		appLogger.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		appLogger.Fatal("schema bootstrap failed", logger.Error(err))
	}

	catalog, err := newCatalogSource(cfg, pool, appLogger)
	if err != nil {
		appLogger.Fatal("catalog source init failed", logger.Error(err))
	}

	cartBackend, err := newCartBackend(cfg.Cart, pool)
	if err != nil {
		appLogger.Fatal("cart storage init failed", logger.Error(err))
	}
	carts := cartapp.NewManager(cartBackend, appLogger)

	checker := availapp.NewChecker(catalog, availapp.Options{
		Workers:       cfg.Checkout.LookupWorkers,
		LookupTimeout: cfg.Checkout.LookupTimeout(),
	}, appLogger)
	calculator := pricingapp.NewCalculator(catalog, cfg.Checkout.FallbackFee(), appLogger)
	payments := payment.NewService(catalog)
	customizer := customapp.NewService(catalog, appLogger)

	codec, err := avro.NewOrderCodec()
	if err != nil {
		appLogger.Fatal("avro codec init failed", logger.Error(err))
	}
	producer, err := kafkainfra.NewOrderProducer(cfg.Kafka, codec, appLogger)
	if err != nil {
		appLogger.Fatal("kafka producer init failed", logger.Error(err))
	}
	defer producer.Close()

	// Stock is only decremented where the catalog lives in the same database.
	orders := postgres.NewOrderRepository(pool, cfg.Catalog.Source == "postgres")

	checkoutService := checkout.NewService(
		orders,
		catalog,
		checker,
		calculator,
		payments,
		carts,
		producer,
		checkout.Options{
			RecheckOnSubmit: cfg.Checkout.RecheckOnSubmit,
			FollowUpTimeout: cfg.Checkout.FollowUpTimeout(),
		},
		appLogger,
	)
	pipeline := reorder.NewPipeline(orders, catalog, checker, calculator, appLogger)

	var suggestions handler.Suggestions
	if cfg.Neo4j.Enabled() {
		graphClient, err := graph.NewClient(cfg.Neo4j)
		if err != nil {
			appLogger.Fatal("neo4j connection failed", logger.Error(err))
		}
		defer graphClient.Close(context.Background())
		suggestions = suggestapp.NewService(graph.NewPurchaseGraph(graphClient), catalog, appLogger)
	} else {
		appLogger.Warn("NEO4J_URI is not set, suggestions are disabled")
	}

	engine := ginserver.NewEngine(cfg.App.Env, appLogger)
	router.RegisterRoutes(engine, router.Handlers{
		Cart:        handler.NewCartHandler(carts, catalog, customizer),
		Catalog:     handler.NewCatalogHandler(customizer, payments),
		Checkout:    handler.NewCheckoutHandler(carts, checkoutService),
		Reorder:     handler.NewReorderHandler(pipeline, checkoutService),
		Suggestions: handler.NewSuggestionHandler(suggestions),
	})

	server := ginserver.NewServer(cfg.Server, engine, appLogger)
	if err := server.Run(ctx); err != nil {
		appLogger.Fatal("server run failed", logger.Error(err))
	}
	appLogger.Info("server stopped")
}

func newCatalogSource(cfg *config.Config, pool *pgxpool.Pool, log logger.Logger) (catalogSource, error) {
	if cfg.Catalog.Source == "rest" {
		return catalogapi.NewClient(cfg.Catalog, log)
	}
	return postgres.NewCatalogRepository(pool), nil
}

func newCartBackend(cfg config.CartConfig, pool *pgxpool.Pool) (repository.KeyValueStore, error) {
	if cfg.Storage == "file" {
		return file.NewKVStore(cfg.Dir)
	}
	return postgres.NewKVStore(pool), nil
}
