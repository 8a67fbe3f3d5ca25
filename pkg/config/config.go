package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "lipachap"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LIPACHAP_DB_DSN"
	EnvDBHost = "LIPACHAP_DB_HOST"
	EnvDBUser = "LIPACHAP_DB_USER"
	EnvDBName = "LIPACHAP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Payments     PaymentsConfig
	Drafts       DraftsConfig
	Share        ShareConfig
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
	Env          string `envconfig:"LIPACHAP_APP_ENV" required:"true"`
	Port         string `envconfig:"LIPACHAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LIPACHAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LIPACHAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LIPACHAP_DB_DSN"`
	Driver string `envconfig:"LIPACHAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LIPACHAP_DB_HOST"`
	LegacyPort     int    `envconfig:"LIPACHAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LIPACHAP_DB_USER"`
	LegacyPassword string `envconfig:"LIPACHAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"LIPACHAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"LIPACHAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LIPACHAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LIPACHAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LIPACHAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LIPACHAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LIPACHAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LIPACHAP_REDIS_ADDR"`
	Password     string        `envconfig:"LIPACHAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LIPACHAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LIPACHAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LIPACHAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LIPACHAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LIPACHAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LIPACHAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaymentsConfig tunes the simulated payment processor.
type PaymentsConfig struct {
	SettleDelay time.Duration `envconfig:"LIPACHAP_PAYMENTS_SETTLE_DELAY" default:"2s"`
}

// DraftsConfig tunes invoice draft persistence.
type DraftsConfig struct {
	DebounceInterval time.Duration `envconfig:"LIPACHAP_DRAFTS_DEBOUNCE_INTERVAL" default:"1s"`
	SnapshotTTL      time.Duration `envconfig:"LIPACHAP_DRAFTS_SNAPSHOT_TTL" default:"720h"`
	CartTTL          time.Duration `envconfig:"LIPACHAP_DRAFTS_CART_TTL" default:"24h"`
}

// ShareConfig controls how shareable links are composed.
type ShareConfig struct {
	BaseURL string `envconfig:"LIPACHAP_SHARE_BASE_URL" default:"https://lipachap.app"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LIPACHAP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
