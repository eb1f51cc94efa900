package config

import (
	"fmt"
	"net"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		ServiceName string            `env:"SERVICE_NAME" default:"ride-coordinator" validate:"required"`
		LogLevel    string            `env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
		Storage     types.StorageMode `env:"STORAGE_MODE" default:"postgres" validate:"oneof=postgres memory"`

		Server      ServerConfig
		Database    DatabaseConfig
		Redis       RedisConfig
		RabbitMQ    RabbitMQConfig
		Kafka       KafkaConfig
		Auth        AuthConfig
		ExternalAPI ExternalAPIConfig
		Tracking    TrackingConfig
	}

	ServerConfig struct {
		Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
		Port            string        `env:"SERVER_PORT" default:"3000" validate:"required"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"coordinator"`
		Password string `env:"DATABASE_PASSWORD" default:"coordinator"`
		Database string `env:"DATABASE_DATABASE" default:"rides"`
		SSLMode  string `env:"DATABASE_SSLMODE" default:"disable"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RedisConfig struct {
		Host        string        `env:"REDIS_HOST" default:"localhost"`
		Port        string        `env:"REDIS_PORT" default:"6379"`
		Password    string        `env:"REDIS_PASSWORD"`
		DB          int           `env:"REDIS_DB" default:"0" validate:"gte=0"`
		DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	KafkaConfig struct {
		Brokers       []string      `env:"KAFKA_BROKERS" default:"localhost:9092"`
		LocationTopic string        `env:"KAFKA_LOCATION_TOPIC" default:"ride-locations"`
		WriteTimeout  time.Duration `env:"KAFKA_WRITE_TIMEOUT" default:"2s"`
		Enabled       bool          `env:"KAFKA_ENABLED" default:"true"`
	}

	AuthConfig struct {
		JWTSecret string `env:"AUTH_JWT_SECRET" default:"supersecretkey" validate:"min=8"`
	}

	ExternalAPIConfig struct {
		LocationIQapiKey  string        `env:"LOCATIONIQ_API_KEY"`
		LocationIQBaseURL string        `env:"LOCATIONIQ_BASE_URL" default:"https://us1.locationiq.com"`
		Timeout           time.Duration `env:"LOCATIONIQ_TIMEOUT" default:"3s"`
	}

	TrackingConfig struct {
		// LocationTTL reclaims location slots of rides that were never evicted.
		LocationTTL   time.Duration `env:"TRACKING_LOCATION_TTL" default:"6h"`
		NotifyTimeout time.Duration `env:"TRACKING_NOTIFY_TIMEOUT" default:"3s"`
	}
)

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		c.Password,
		net.JoinHostPort(c.Host, c.Port),
		c.Database,
		c.SSLMode,
	)
}

func (c DatabaseConfig) PoolSettings() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RedisConfig) Options() (addr, password string, db int, dialTimeout time.Duration) {
	return net.JoinHostPort(c.Host, c.Port), c.Password, c.DB, c.DialTimeout
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s/",
		c.User,
		c.Password,
		net.JoinHostPort(c.Host, c.Port),
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
