package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Ledger"`
		Port int    `envconfig:"PORT" default:"8000"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"mongo"`
	}

	Mongo struct {
		URI        string        `envconfig:"MONGO_URI" default:"mongodb://127.0.0.1:27017"`
		Database   string        `envconfig:"MONGO_DATABASE" default:"banking_db"`
		Collection string        `envconfig:"MONGO_COLLECTION" default:"transactions"`
		Timeout    time.Duration `envconfig:"MONGO_TIMEOUT" default:"10s"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ledger"`
	}

	Badger struct {
		Path     string `envconfig:"BADGER_PATH" default:"data"`
		InMemory bool   `envconfig:"BADGER_IN_MEMORY" default:"false"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	}

	GraphQL struct {
		Playground     bool `envconfig:"GRAPHQL_PLAYGROUND" default:"true"`
		MaxDepth       int  `envconfig:"GRAPHQL_MAX_DEPTH" default:"10"`
		MaxParallelism int  `envconfig:"GRAPHQL_MAX_PARALLELISM" default:"10"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	// Kafka publishing is disabled while Brokers is empty. BatchTimeout bounds
	// how long a publish waits for its batch to flush.
	Kafka struct {
		Brokers      []string      `envconfig:"KAFKA_BROKERS"`
		Topic        string        `envconfig:"KAFKA_TOPIC" default:"transaction_events"`
		BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverBadger:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
