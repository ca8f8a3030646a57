package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	CatalogSourceFakeStore = "fakestore"
	CatalogSourceMySQL     = "mysql"
)

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr        string        `env:"HTTP_ADDR"        envDefault:":8080"`
	GRPCAddr        string        `env:"GRPC_ADDR"        envDefault:":50051"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Currency every cart is priced in.
	Currency string `env:"CART_CURRENCY" envDefault:"USD"`

	CatalogSource     string        `env:"CATALOG_SOURCE"      envDefault:"fakestore"`
	CatalogBaseURL    string        `env:"CATALOG_BASE_URL"    envDefault:"https://fakestoreapi.com"`
	CatalogTimeout    time.Duration `env:"CATALOG_TIMEOUT"     envDefault:"10s"`
	CatalogWarmOnBoot bool          `env:"CATALOG_WARM_ON_BOOT" envDefault:"true"`
	WorkerCount       int           `env:"CATALOG_WORKERS"     envDefault:"8"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/storefront?parseTime=true"`

	CacheEnabled   bool          `env:"CACHE_ENABLED"   envDefault:"true"`
	RedisAddr      string        `env:"REDIS_ADDR"      envDefault:"localhost:6379"`
	RedisPoolSize  int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	ProductTTL     time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"5m"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL"   envDefault:"24h"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CatalogSource {
	case CatalogSourceFakeStore, CatalogSourceMySQL:
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}
	if len(strings.TrimSpace(c.Currency)) != 3 {
		return fmt.Errorf("CART_CURRENCY must be a 3-letter code, got %q", c.Currency)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("CATALOG_WORKERS must be positive, got %d", c.WorkerCount)
	}
	return nil
}
