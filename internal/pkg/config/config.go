package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Identity   IdentityConfig
	Enrichment EnrichmentConfig
	Billing    BillingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=onboarding"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IdentityConfig points at the external identity service. When BaseURL is
// empty the server falls back to the Mongo-backed identity repository.
type IdentityConfig struct {
	BaseURL       string `env:"IDENTITY_URL"`
	ServiceSecret string `env:"IDENTITY_SERVICE_SECRET"`
}

// EnrichmentConfig configures the postal-code lookup service. An empty Token
// disables enrichment.
type EnrichmentConfig struct {
	BaseURL string `env:"ENRICHMENT_URL, default=https://cep.awesomeapi.com.br"`
	Token   string `env:"ENRICHMENT_TOKEN"`
}

// BillingConfig configures the payment provider. Billing is disabled unless
// both BaseURL and APIKey are set.
type BillingConfig struct {
	BaseURL   string `env:"BILLING_URL"`
	APIKey    string `env:"BILLING_API_KEY"`
	PlanID    string `env:"BILLING_PLAN_ID,    default=studio-monthly"`
	TrialDays int    `env:"BILLING_TRIAL_DAYS, default=7"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
