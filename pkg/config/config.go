package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; variables are named SUPPLYTRUST_*.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Compliance   ComplianceConfig
	Cron         CronConfig
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
	Env          string `envconfig:"SUPPLYTRUST_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPPLYTRUST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPPLYTRUST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPLYTRUST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUPPLYTRUST_DB_DSN"`
	Driver string `envconfig:"SUPPLYTRUST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUPPLYTRUST_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYTRUST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYTRUST_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYTRUST_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYTRUST_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYTRUST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYTRUST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYTRUST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYTRUST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYTRUST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a Postgres DSN from the legacy discrete variables when a
// full DSN was not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either SUPPLYTRUST_DB_DSN or host/user/name must be set")
	}
	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: url.Values{"sslmode": []string{d.LegacySSLMode}}.Encode(),
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYTRUST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUPPLYTRUST_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYTRUST_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYTRUST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYTRUST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYTRUST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYTRUST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYTRUST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYTRUST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SUPPLYTRUST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SUPPLYTRUST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SUPPLYTRUST_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SUPPLYTRUST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SUPPLYTRUST_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SUPPLYTRUST_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SUPPLYTRUST_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SUPPLYTRUST_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"SUPPLYTRUST_GCS_BUCKET_NAME" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"SUPPLYTRUST_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
	MaxUploadMB       int           `envconfig:"SUPPLYTRUST_MAX_UPLOAD_MB" default:"50"`
}

type ComplianceConfig struct {
	// ExpiringWindowDays controls how far ahead of the expiry date a document
	// is reported as expiring soon.
	ExpiringWindowDays int `envconfig:"SUPPLYTRUST_COMPLIANCE_EXPIRING_WINDOW_DAYS" default:"60"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SUPPLYTRUST_CRON_INTERVAL" default:"1h"`
	LockKey  string        `envconfig:"SUPPLYTRUST_CRON_LOCK_KEY" default:"supplytrust:cron:lock"`
	LockTTL  time.Duration `envconfig:"SUPPLYTRUST_CRON_LOCK_TTL" default:"2h"`
}
