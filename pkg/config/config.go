package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Docstore backends selectable at boot.
const (
	DocstoreBackendMemory = "memory"
	DocstoreBackendRedis  = "redis"
	DocstoreBackendSQLite = "sqlite"
)

type Config struct {
	App      AppConfig
	Docstore DocstoreConfig
	Redis    RedisConfig
	Identity IdentityConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Docstore.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GROCERFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"GROCERFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GROCERFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROCERFRONT_LOG_WARN_STACK" default:"false"`

	// AppID namespaces every collection so multiple storefronts can share
	// one backing store.
	AppID string `envconfig:"GROCERFRONT_APP_ID" default:"default-grocery-mvp"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Collection builds the namespaced path for a named collection.
func (a AppConfig) Collection(name string) string {
	return fmt.Sprintf("artifacts/%s/public/data/%s", a.AppID, name)
}

// ProductsCollection is the catalog feed path.
func (a AppConfig) ProductsCollection() string {
	return a.Collection("products")
}

// OrdersCollection is the order feed path.
func (a AppConfig) OrdersCollection() string {
	return a.Collection("orders")
}

type DocstoreConfig struct {
	Backend    string `envconfig:"GROCERFRONT_DOCSTORE_BACKEND" default:"memory"`
	SQLitePath string `envconfig:"GROCERFRONT_DOCSTORE_SQLITE_PATH" default:"grocerfront.db"`
}

func (d DocstoreConfig) validate() error {
	switch d.Backend {
	case DocstoreBackendMemory, DocstoreBackendRedis, DocstoreBackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown docstore backend %q", d.Backend)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCERFRONT_REDIS_URL"`
	Address      string        `envconfig:"GROCERFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"GROCERFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCERFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCERFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCERFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCERFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCERFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCERFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type IdentityConfig struct {
	// Token is an optional signed sign-in token; empty means anonymous.
	Token     string `envconfig:"GROCERFRONT_IDENTITY_TOKEN"`
	JWTSecret string `envconfig:"GROCERFRONT_IDENTITY_JWT_SECRET"`
	JWTIssuer string `envconfig:"GROCERFRONT_IDENTITY_JWT_ISSUER"`
}
