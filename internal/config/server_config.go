package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	DB       PostgresConfig
	Kafka    KafkaConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Cart     CartConfig
	Neo4j    Neo4jConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers       []string
	OrderTopic    string
	ConsumerGroup string
	Username      string
	Password      string
}

// CatalogConfig points at the backend REST API used for product and
// delivery-area lookups. Source "postgres" reads the tables directly instead.
type CatalogConfig struct {
	Source         string
	BaseURL        string
	APIKey         string
	TimeoutMS      int
	RetryAttempts  int
	RetryBackoffMS int
}

type CheckoutConfig struct {
	LookupTimeoutMS     int
	LookupWorkers       int
	FallbackDeliveryFee string
	RecheckOnSubmit     bool
	FollowUpTimeoutMS   int
}

// CartConfig selects where cart snapshots are kept: "postgres" or "file".
type CartConfig struct {
	Storage string
	Dir     string
}

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "meal_storefront"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8030),
		},
		DB: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:       splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "orders.placed"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "order-projector"),
			Username:      getEnv("KAFKA_USERNAME", ""),
			Password:      getEnv("KAFKA_PASSWORD", ""),
		},
		Catalog: CatalogConfig{
			Source:         getEnv("CATALOG_SOURCE", "postgres"),
			BaseURL:        getEnv("CATALOG_BASE_URL", ""),
			APIKey:         getEnv("CATALOG_API_KEY", ""),
			TimeoutMS:      getEnvAsInt("CATALOG_TIMEOUT_MS", 5000),
			RetryAttempts:  getEnvAsInt("CATALOG_RETRY_ATTEMPTS", 2),
			RetryBackoffMS: getEnvAsInt("CATALOG_RETRY_BACKOFF_MS", 200),
		},
		Checkout: CheckoutConfig{
			LookupTimeoutMS:     getEnvAsInt("CHECKOUT_LOOKUP_TIMEOUT_MS", 3000),
			LookupWorkers:       getEnvAsInt("CHECKOUT_LOOKUP_WORKERS", 8),
			FallbackDeliveryFee: getEnv("CHECKOUT_FALLBACK_DELIVERY_FEE", "9.90"),
			RecheckOnSubmit:     getEnvAsBool("CHECKOUT_RECHECK", true),
			FollowUpTimeoutMS:   getEnvAsInt("CHECKOUT_FOLLOWUP_TIMEOUT_MS", 5000),
		},
		Cart: CartConfig{
			Storage: getEnv("CART_STORAGE", "postgres"),
			Dir:     getEnv("CART_DIR", "./data/carts"),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", ""),
			Username: getEnv("NEO4J_USERNAME", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
			Database: getEnv("NEO4J_DATABASE", "neo4j"),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

func (c CheckoutConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMS) * time.Millisecond
}

func (c CheckoutConfig) FollowUpTimeout() time.Duration {
	return time.Duration(c.FollowUpTimeoutMS) * time.Millisecond
}

// FallbackFee is the delivery fee charged when no delivery area matches.
// validate() guarantees it parses.
func (c CheckoutConfig) FallbackFee() decimal.Decimal {
	return decimal.RequireFromString(c.FallbackDeliveryFee)
}

func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c CatalogConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}

// Enabled reports whether a Neo4j instance is configured.
func (n Neo4jConfig) Enabled() bool {
	return n.URI != ""
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
		return fmt.Errorf("database config is incomplete")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	switch c.Catalog.Source {
	case "postgres":
	case "rest":
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("CATALOG_BASE_URL is required when CATALOG_SOURCE=rest")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE %q is not supported", c.Catalog.Source)
	}
	switch c.Cart.Storage {
	case "postgres", "file":
	default:
		return fmt.Errorf("CART_STORAGE %q is not supported", c.Cart.Storage)
	}
	if c.Checkout.LookupTimeoutMS <= 0 {
		return fmt.Errorf("CHECKOUT_LOOKUP_TIMEOUT_MS must be positive")
	}
	if c.Checkout.LookupWorkers <= 0 {
		return fmt.Errorf("CHECKOUT_LOOKUP_WORKERS must be positive")
	}
	if fee, err := decimal.NewFromString(c.Checkout.FallbackDeliveryFee); err != nil || fee.IsNegative() {
		return fmt.Errorf("CHECKOUT_FALLBACK_DELIVERY_FEE is invalid: %q", c.Checkout.FallbackDeliveryFee)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
