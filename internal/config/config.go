package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	AppName     string        `env:"APP_NAME" envDefault:"TravelGlide"`
	StoreKind   string        `env:"STORE_BACKEND" envDefault:"memory"`
	TicketDir   string        `env:"TICKET_DIR"`
	SessionIdle time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SeedDemo    bool          `env:"SEED_DEMO_USER" envDefault:"true"`

	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
}

type PostgresConfig struct {
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS"`
}

// RedisConfig is optional; an empty Addr disables caching, pub/sub, rate
// limiting and idempotency keys.
type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"REDIS_CACHE_TTL" envDefault:"1m"`
	BookingLimit  int           `env:"BOOKING_RATE_LIMIT" envDefault:"10"`
	BookingWindow time.Duration `env:"BOOKING_RATE_WINDOW" envDefault:"1m"`
	IdemTTL       time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"2h"`
}

// RabbitMQConfig is optional; an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL string `env:"RABBITMQ_URL"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.StoreKind {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.User == "" {
			errs = append(errs, errors.New("missing POSTGRES_USER"))
		}
		if c.Postgres.Password == "" {
			errs = append(errs, errors.New("missing POSTGRES_PASSWORD"))
		}
		if c.Postgres.Name == "" {
			errs = append(errs, errors.New("missing POSTGRES_DB"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreKind))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("missing JWT_SECRET"))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port))
	}

	return errors.Join(errs...)
}
