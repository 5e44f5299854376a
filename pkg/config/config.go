package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Brand is used for export filenames and log metadata.
const Brand = "ryft"

const (
	// EnvPrefix is passed to envconfig; variables carry explicit RYFT_ tags.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RYFT_APP_ENV" default:"dev"`
	Port         string `envconfig:"RYFT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RYFT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RYFT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

// DBConfig selects the storage substrate. The store ships on a local sqlite
// file by default; postgres is available for shared deployments.
type DBConfig struct {
	Driver string `envconfig:"RYFT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"RYFT_DB_DSN" default:"file:ryft.db?_busy_timeout=5000"`

	MaxOpenConns    int           `envconfig:"RYFT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RYFT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RYFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RYFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("RYFT_DB_DSN is required")
	}
	return nil
}

// RedisConfig is optional; auth rate limiting is skipped when no URL is set.
type RedisConfig struct {
	URL          string        `envconfig:"RYFT_REDIS_URL"`
	PoolSize     int           `envconfig:"RYFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RYFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RYFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RYFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RYFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"RYFT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RYFT_JWT_ISSUER" default:"ryft-api"`
	ExpirationMinutes int    `envconfig:"RYFT_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RYFT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RYFT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RYFT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RYFT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RYFT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RYFT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"RYFT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RYFT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"RYFT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"RYFT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"RYFT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RYFT_AUTO_MIGRATE" default:"false"`
}
