package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Catalog       CatalogConfig
	Reviews       ReviewsConfig
	Pages         PagesConfig
	AuthRateLimit AuthRateLimitConfig
	Features      FeatureFlags
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
	Env          string `envconfig:"AGENTMART_APP_ENV" required:"true"`
	Port         string `envconfig:"AGENTMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGENTMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGENTMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGENTMART_DB_DSN"`
	Driver string `envconfig:"AGENTMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGENTMART_DB_HOST"`
	LegacyPort     int    `envconfig:"AGENTMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGENTMART_DB_USER"`
	LegacyPassword string `envconfig:"AGENTMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGENTMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGENTMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGENTMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGENTMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGENTMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGENTMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGENTMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGENTMART_REDIS_ADDR"`
	Password     string        `envconfig:"AGENTMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGENTMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGENTMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGENTMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGENTMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGENTMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGENTMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AGENTMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AGENTMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AGENTMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AGENTMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGENTMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGENTMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGENTMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGENTMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGENTMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AGENTMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AGENTMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AGENTMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AGENTMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AGENTMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AGENTMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CatalogConfig struct {
	CategoriesCacheTTL  time.Duration `envconfig:"AGENTMART_CATEGORIES_CACHE_TTL" default:"5m"`
	CategoriesStaleFor  time.Duration `envconfig:"AGENTMART_CATEGORIES_STALE_FOR" default:"10m"`
	DefaultThumbnailURL string        `envconfig:"AGENTMART_DEFAULT_THUMBNAIL_URL"`
}

type ReviewsConfig struct {
	EligibilityDays int `envconfig:"AGENTMART_REVIEW_ELIGIBILITY_DAYS" default:"14"`
}

// EligibilityWindow is the minimum time between purchase and review.
func (r ReviewsConfig) EligibilityWindow() time.Duration {
	if r.EligibilityDays <= 0 {
		return 0
	}
	return time.Duration(r.EligibilityDays) * 24 * time.Hour
}

type PagesConfig struct {
	BaseURL        string        `envconfig:"AGENTMART_PAGES_BASE_URL" default:"http://localhost:8080"`
	SessionCookie  string        `envconfig:"AGENTMART_SESSION_COOKIE" default:"agentmart_session"`
	AuthCodeTTL    time.Duration `envconfig:"AGENTMART_AUTH_CODE_TTL" default:"5m"`
	ResetTokenTTL  time.Duration `envconfig:"AGENTMART_RESET_TOKEN_TTL" default:"1h"`
	DefaultNextURL string        `envconfig:"AGENTMART_DEFAULT_NEXT_URL" default:"/dashboard"`
}

type FeatureFlags struct {
	// AutoMigrate runs pending migrations on API start in dev environments.
	AutoMigrate bool `envconfig:"AGENTMART_AUTO_MIGRATE" default:"false"`
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
