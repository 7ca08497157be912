package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/retail-admin-backend/pkg/env"
)

type Config struct {
	App            AppConfig
	DB             DBConfig
	Pagination     PaginationConfig
	CORS           CORSConfig
	FeatureFlags   FeatureFlagsConfig
	Session        SessionConfig
	Installers     InstallersConfig
	Redis          RedisConfig
	LoginRateLimit LoginRateLimitConfig
	GitHub         GitHubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Pagination.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.ensureSecret(cfg.App); err != nil {
		return nil, err
	}
	cfg.Installers.Dir = env.ExpandHome(cfg.Installers.Dir)
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAIL_APP_ENV" default:"dev"`
	Name         string `envconfig:"RETAIL_APP_NAME" default:"Retail Admin"`
	Host         string `envconfig:"RETAIL_APP_HOST" default:"127.0.0.1"`
	Port         string `envconfig:"RETAIL_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"RETAIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAIL_LOG_WARN_STACK" default:"false"`
	APIPrefix    string `envconfig:"RETAIL_API_PREFIX" default:"/api/v1"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Addr joins host and port into a listen address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

type DBConfig struct {
	Driver string `envconfig:"RETAIL_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"RETAIL_DB_DSN" default:"file:retail.db?_foreign_keys=1"`
	Echo   bool   `envconfig:"RETAIL_DB_ECHO" default:"false"`

	MaxOpenConns    int           `envconfig:"RETAIL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAIL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Dialect normalizes the configured driver name.
func (db DBConfig) Dialect() string {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "", DialectSQLite, "sqlite3":
		return DialectSQLite
	case DialectPostgres, "postgresql", "pg":
		return DialectPostgres
	}
	return ""
}

func (db DBConfig) validate() error {
	if db.Dialect() == "" {
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type PaginationConfig struct {
	DefaultPageSize int `envconfig:"RETAIL_DEFAULT_PAGE_SIZE" default:"50"`
	MaxPageSize     int `envconfig:"RETAIL_MAX_PAGE_SIZE" default:"200"`
}

func (p PaginationConfig) validate() error {
	if p.DefaultPageSize <= 0 || p.MaxPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if p.DefaultPageSize > p.MaxPageSize {
		return fmt.Errorf("%s must not exceed %s", EnvDefaultPageSize, EnvMaxPageSize)
	}
	return nil
}

type CORSConfig struct {
	Origins []string `envconfig:"RETAIL_CORS_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RETAIL_AUTO_MIGRATE" default:"true"`
}

type SessionConfig struct {
	SecretKey    string        `envconfig:"RETAIL_SECRET_KEY"`
	TTL          time.Duration `envconfig:"RETAIL_SESSION_TTL" default:"8h"`
	CookieName   string        `envconfig:"RETAIL_SESSION_COOKIE" default:"admin_session"`
	CookieSecure bool          `envconfig:"RETAIL_COOKIE_SECURE" default:"false"`
}

func (s *SessionConfig) ensureSecret(app AppConfig) error {
	if strings.TrimSpace(s.SecretKey) != "" {
		return nil
	}
	if app.IsProd() {
		return fmt.Errorf("%s is required in %s", EnvSecretKey, AppEnvProd)
	}
	s.SecretKey = devSecretKey
	return nil
}

type InstallersConfig struct {
	Dir string `envconfig:"RETAIL_INSTALLER_DIR" default:"~/.retail_admin/installers"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAIL_REDIS_URL"`
	PoolSize     int           `envconfig:"RETAIL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAIL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type LoginRateLimitConfig struct {
	Window        time.Duration `envconfig:"RETAIL_LOGIN_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit       int           `envconfig:"RETAIL_LOGIN_RATE_LIMIT_IP_LIMIT" default:"20"`
	UsernameLimit int           `envconfig:"RETAIL_LOGIN_RATE_LIMIT_USERNAME_LIMIT" default:"5"`
}

type GitHubConfig struct {
	Token      string        `envconfig:"GITHUB_TOKEN"`
	APIRoot    string        `envconfig:"RETAIL_GITHUB_API_ROOT" default:"https://api.github.com"`
	UploadRoot string        `envconfig:"RETAIL_GITHUB_UPLOAD_ROOT" default:"https://uploads.github.com"`
	Timeout    time.Duration `envconfig:"RETAIL_GITHUB_TIMEOUT" default:"60s"`
}
