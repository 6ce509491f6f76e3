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
	Upstream      UpstreamConfig
	Cart          CartConfig
	Coupons       CouponsConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Coupons.validate(); err != nil {
		return nil, err
	}
	if cfg.Coupons.FromDB() {
		if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TASTETRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"TASTETRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TASTETRACK_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"TASTETRACK_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"TASTETRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TASTETRACK_DB_DSN"`
	Driver string `envconfig:"TASTETRACK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TASTETRACK_DB_HOST"`
	Port     int    `envconfig:"TASTETRACK_DB_PORT" default:"5432"`
	User     string `envconfig:"TASTETRACK_DB_USER"`
	Password string `envconfig:"TASTETRACK_DB_PASSWORD"`
	Name     string `envconfig:"TASTETRACK_DB_NAME"`
	SSLMode  string `envconfig:"TASTETRACK_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"TASTETRACK_SQLITE_PATH" default:"tastetrack.db"`

	MaxOpenConns    int           `envconfig:"TASTETRACK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TASTETRACK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TASTETRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TASTETRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TASTETRACK_REDIS_URL"`
	Address      string        `envconfig:"TASTETRACK_REDIS_ADDR"`
	Password     string        `envconfig:"TASTETRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TASTETRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TASTETRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TASTETRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TASTETRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TASTETRACK_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"TASTETRACK_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TASTETRACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TASTETRACK_JWT_ISSUER" default:"tastetrack-storefront"`
	ExpirationMinutes int    `envconfig:"TASTETRACK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime; identity sessions share it.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type UpstreamConfig struct {
	BaseURL string        `envconfig:"TASTETRACK_UPSTREAM_BASE_URL" default:"http://localhost:8081/api"`
	Timeout time.Duration `envconfig:"TASTETRACK_UPSTREAM_TIMEOUT" default:"10s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(u.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvUpstreamBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvUpstreamBaseURL)
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvUpstreamTimeout)
	}
	return nil
}

type CartConfig struct {
	TTL time.Duration `envconfig:"TASTETRACK_CART_TTL" default:"72h"`
}

type CouponsConfig struct {
	Source string `envconfig:"TASTETRACK_COUPON_SOURCE" default:"static"`
}

// FromDB reports whether coupons are read from the coupons table.
func (c CouponsConfig) FromDB() bool {
	return strings.EqualFold(strings.TrimSpace(c.Source), CouponSourceDB)
}

func (c CouponsConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case CouponSourceStatic, CouponSourceDB:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q", EnvCouponSource, CouponSourceStatic, CouponSourceDB)
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"TASTETRACK_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TASTETRACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TASTETRACK_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TASTETRACK_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
