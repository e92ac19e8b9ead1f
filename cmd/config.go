package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FULFILLMENT"

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	DB         DBConfig
	Redis      RedisConfig
	RabbitMQ   RabbitMQConfig
	Pickup     PickupConfig
	Scheduling SchedulingConfig
}

// LoadConfig reads the configuration from the environment. A .env file, if any,
// must already be loaded.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return Config{}, err
	}
	if err := cfg.Scheduling.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MigrateConfig is the subset read by the migrate command, which needs no
// pickup secret or broker settings.
type MigrateConfig struct {
	App AppConfig
	DB  DBConfig
}

func LoadMigrateConfig() (MigrateConfig, error) {
	var cfg MigrateConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return MigrateConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return MigrateConfig{}, err
	}
	return cfg, nil
}

type AppConfig struct {
	LogLevel     string `envconfig:"FULFILLMENT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FULFILLMENT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FULFILLMENT_LOG_WARN_STACK" default:"false"`
}

type HTTPConfig struct {
	Port            string        `envconfig:"FULFILLMENT_HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"FULFILLMENT_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
}

type DBConfig struct {
	DSN string `envconfig:"FULFILLMENT_DB_DSN"`

	Host     string `envconfig:"FULFILLMENT_DB_HOST"`
	Port     int    `envconfig:"FULFILLMENT_DB_PORT" default:"5432"`
	User     string `envconfig:"FULFILLMENT_DB_USER"`
	Password string `envconfig:"FULFILLMENT_DB_PASSWORD"`
	Name     string `envconfig:"FULFILLMENT_DB_NAME"`
	SSLMode  string `envconfig:"FULFILLMENT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FULFILLMENT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FULFILLMENT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FULFILLMENT_DB_CONN_MAX_LIFETIME" default:"1h"`

	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `envconfig:"FULFILLMENT_DB_AUTO_MIGRATE" default:"false"`
}

// ensureDSN builds the DSN from the individual settings when none is given.
func (c *DBConfig) ensureDSN() error {
	if c.DSN != "" {
		return nil
	}
	if c.Host == "" || c.User == "" || c.Name == "" {
		return errors.New("database configuration requires FULFILLMENT_DB_DSN or host, user and name")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	c.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FULFILLMENT_REDIS_URL"`
	Address      string        `envconfig:"FULFILLMENT_REDIS_ADDR"`
	Password     string        `envconfig:"FULFILLMENT_REDIS_PASSWORD"`
	DB           int           `envconfig:"FULFILLMENT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FULFILLMENT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FULFILLMENT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FULFILLMENT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FULFILLMENT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FULFILLMENT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a nonce registry should be used.
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

type RabbitMQConfig struct {
	URL           string        `envconfig:"FULFILLMENT_RABBITMQ_URL"`
	Exchange      string        `envconfig:"FULFILLMENT_RABBITMQ_EXCHANGE" default:"fulfillment.notifications"`
	NotifyTimeout time.Duration `envconfig:"FULFILLMENT_NOTIFY_TIMEOUT" default:"5s"`
}

type PickupConfig struct {
	Secret   string        `envconfig:"FULFILLMENT_PICKUP_SECRET" required:"true"`
	Issuer   string        `envconfig:"FULFILLMENT_PICKUP_ISSUER" default:"fulfillment"`
	TokenTTL time.Duration `envconfig:"FULFILLMENT_PICKUP_TOKEN_TTL" default:"12h"`
}

type SchedulingConfig struct {
	MinSlotMinutes   int           `envconfig:"FULFILLMENT_MIN_SLOT_MINUTES" default:"30"`
	ExpirySchedule   string        `envconfig:"FULFILLMENT_EXPIRY_SCHEDULE" default:"0 * * * * *"`
	ExpiryGrace      time.Duration `envconfig:"FULFILLMENT_EXPIRY_GRACE" default:"15m"`
	ExpiryBatchSize  int           `envconfig:"FULFILLMENT_EXPIRY_BATCH_SIZE" default:"100"`
	ExpiryJobEnabled bool          `envconfig:"FULFILLMENT_EXPIRY_JOB_ENABLED" default:"true"`
}

func (c SchedulingConfig) MinSlotDuration() time.Duration {
	return time.Duration(c.MinSlotMinutes) * time.Minute
}

func (c SchedulingConfig) validate() error {
	if c.MinSlotMinutes <= 0 || c.MinSlotMinutes > 24*60 {
		return fmt.Errorf("FULFILLMENT_MIN_SLOT_MINUTES must be within 1..1440, got %d", c.MinSlotMinutes)
	}
	if c.ExpiryGrace < 0 {
		return fmt.Errorf("FULFILLMENT_EXPIRY_GRACE must not be negative, got %s", c.ExpiryGrace)
	}
	return nil
}
