package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable read by envconfig.
	EnvPrefix = "PRINTDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Statuses     StatusesConfig
	Cron         CronConfig
	Outbox       OutboxConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRINTDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"PRINTDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRINTDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTDESK_DB_DSN"`
	Driver string `envconfig:"PRINTDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PRINTDESK_DB_HOST"`
	Port     int    `envconfig:"PRINTDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"PRINTDESK_DB_USER"`
	Password string `envconfig:"PRINTDESK_DB_PASSWORD"`
	Name     string `envconfig:"PRINTDESK_DB_NAME"`
	SSLMode  string `envconfig:"PRINTDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRINTDESK_REDIS_URL"`
	Address      string        `envconfig:"PRINTDESK_REDIS_ADDR"`
	Password     string        `envconfig:"PRINTDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRINTDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRINTDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StatusesConfig points at an optional JSON overlay for the order status catalog.
// When empty, the compiled-in defaults are used as-is.
type StatusesConfig struct {
	CatalogPath string `envconfig:"PRINTDESK_STATUS_CATALOG_PATH"`
}

type CronConfig struct {
	SweepInterval time.Duration `envconfig:"PRINTDESK_CRON_SWEEP_INTERVAL" default:"1h"`
	LockKey       string        `envconfig:"PRINTDESK_CRON_LOCK_KEY" default:"cron:leader"`
	LockTTL       time.Duration `envconfig:"PRINTDESK_CRON_LOCK_TTL" default:"2h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PRINTDESK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PRINTDESK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PRINTDESK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PRINTDESK_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic              string `envconfig:"PRINTDESK_PUBSUB_ORDERS_TOPIC" default:"pd-order-events"`
	OrdersSubscription       string `envconfig:"PRINTDESK_PUBSUB_ORDERS_SUBSCRIPTION"`
	NotificationTopic        string `envconfig:"PRINTDESK_PUBSUB_NOTIFICATION_TOPIC" default:"pd-notification-events"`
	NotificationSubscription string `envconfig:"PRINTDESK_PUBSUB_NOTIFICATION_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRINTDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRINTDESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		db.DSN = "file::memory:?cache=shared"
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		"PRINTDESK_DB_HOST": db.Host,
		"PRINTDESK_DB_USER": db.User,
		"PRINTDESK_DB_NAME": db.Name,
	}
	for _, key := range []string{"PRINTDESK_DB_HOST", "PRINTDESK_DB_USER", "PRINTDESK_DB_NAME"} {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either PRINTDESK_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
