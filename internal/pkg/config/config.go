package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, retention windows, etc.), standard settings
// -----------------------------------------------------------------------------

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Store    StoreConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"pos"`
	Password        string        `envconfig:"DB_PASSWORD" default:""`
	DBName          string        `envconfig:"DB_NAME" default:"pos_checkout"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone        string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// postgres needs DB_* settings, memory keeps everything in process.
type StoreConfig struct {
	Backend string `envconfig:"STORE_BACKEND" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"12h"`
}

type RedisConfig struct {
	Enabled   bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Addr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	ReplayTTL time.Duration `envconfig:"REDIS_REPLAY_TTL" default:"15m"`
}

type KafkaConfig struct {
	Enabled      bool          `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic        string        `envconfig:"KAFKA_TOPIC" default:"sales.committed"`
	PollInterval time.Duration `envconfig:"KAFKA_POLL_INTERVAL" default:"1s"`
	BatchSize    int           `envconfig:"KAFKA_BATCH_SIZE" default:"100"`
}

type CheckoutConfig struct {
	CommitTimeout     time.Duration `envconfig:"CHECKOUT_COMMIT_TIMEOUT" default:"10s"`
	IdempotencyTTL    time.Duration `envconfig:"CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	FingerprintWindow time.Duration `envconfig:"CHECKOUT_FINGERPRINT_WINDOW" default:"30s"`
	SweepInterval     time.Duration `envconfig:"CHECKOUT_SWEEP_INTERVAL" default:"10m"`
	InvoicePrefix     string        `envconfig:"CHECKOUT_INVOICE_PREFIX" default:"SI"`
	InvoiceNodeID     int64         `envconfig:"CHECKOUT_INVOICE_NODE_ID" default:"1"`
	BreakerFailures   uint32        `envconfig:"CHECKOUT_BREAKER_FAILURES" default:"5"`
	BreakerTimeout    time.Duration `envconfig:"CHECKOUT_BREAKER_TIMEOUT" default:"30s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.Store.Backend != StoreBackendPostgres && cfg.Store.Backend != StoreBackendMemory {
		return Config{}, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Store.Backend)
	}
	return cfg, nil
}

// MigrateConfig drives cmd/migrate, which only needs the database.
type MigrateConfig struct {
	DB            DBConfig
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	AtlasBinary   string `envconfig:"ATLAS_BIN" default:"atlas"`
	DryRun        bool   `envconfig:"MIGRATE_DRY_RUN" default:"false"`
}

func LoadMigrateConfig() (MigrateConfig, error) {
	var cfg MigrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return MigrateConfig{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:            "localhost",
			Port:            "15433", // Test DB port
			User:            "test",
			Password:        "test",
			DBName:          "test_db",
			SSLMode:         "disable",
			TimeZone:        "UTC",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
		},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Kafka: KafkaConfig{
			Topic:        "sales.committed",
			PollInterval: 50 * time.Millisecond,
			BatchSize:    10,
		},
		Checkout: CheckoutConfig{
			CommitTimeout:     5 * time.Second,
			IdempotencyTTL:    24 * time.Hour,
			FingerprintWindow: 30 * time.Second,
			SweepInterval:     time.Minute,
			InvoicePrefix:     "SI",
			InvoiceNodeID:     1,
			BreakerFailures:   3,
			BreakerTimeout:    time.Second,
		},
	}
}
