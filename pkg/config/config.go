package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Stripe    StripeConfig
	Checkout  CheckoutConfig
	Resend    ResendConfig
	AdminGate AdminGateConfig
	Features  FeaturesConfig
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
	Env          string `envconfig:"BRIGHTLOOM_APP_ENV" required:"true"`
	Port         string `envconfig:"BRIGHTLOOM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BRIGHTLOOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRIGHTLOOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BRIGHTLOOM_DB_DSN"`
	Driver string `envconfig:"BRIGHTLOOM_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BRIGHTLOOM_DB_HOST"`
	Port     int    `envconfig:"BRIGHTLOOM_DB_PORT" default:"5432"`
	User     string `envconfig:"BRIGHTLOOM_DB_USER"`
	Password string `envconfig:"BRIGHTLOOM_DB_PASSWORD"`
	Name     string `envconfig:"BRIGHTLOOM_DB_NAME"`
	SSLMode  string `envconfig:"BRIGHTLOOM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRIGHTLOOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRIGHTLOOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRIGHTLOOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRIGHTLOOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRIGHTLOOM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BRIGHTLOOM_REDIS_ADDR"`
	Password     string        `envconfig:"BRIGHTLOOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRIGHTLOOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRIGHTLOOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRIGHTLOOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRIGHTLOOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRIGHTLOOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRIGHTLOOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	FrontendOrigin string `envconfig:"BRIGHTLOOM_FRONTEND_ORIGIN" default:"http://localhost:5173"`
}

// RateLimitConfig throttles public intake endpoints per caller IP.
type RateLimitConfig struct {
	Window time.Duration `envconfig:"BRIGHTLOOM_RATE_LIMIT_WINDOW" default:"15m"`
	Max    int           `envconfig:"BRIGHTLOOM_RATE_LIMIT_MAX" default:"100"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"BRIGHTLOOM_STRIPE_SECRET_KEY"`
	WebhookSecret string `envconfig:"BRIGHTLOOM_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"BRIGHTLOOM_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	SuccessURL string `envconfig:"BRIGHTLOOM_CHECKOUT_SUCCESS_URL"`
	CancelURL  string `envconfig:"BRIGHTLOOM_CHECKOUT_CANCEL_URL"`
	// EventIdempotencyTTL bounds how long processed webhook event ids are remembered.
	EventIdempotencyTTL time.Duration `envconfig:"BRIGHTLOOM_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

type ResendConfig struct {
	APIKey    string `envconfig:"BRIGHTLOOM_RESEND_API_KEY"`
	FromEmail string `envconfig:"BRIGHTLOOM_RESEND_FROM_EMAIL"`
	NotifyTo  string `envconfig:"BRIGHTLOOM_RESEND_NOTIFY_TO"`
}

type AdminGateConfig struct {
	PasswordDigest string        `envconfig:"BRIGHTLOOM_ADMIN_PASSWORD_DIGEST"`
	SessionTTL     time.Duration `envconfig:"BRIGHTLOOM_ADMIN_SESSION_TTL" default:"2h"`
	MaxFailures    int           `envconfig:"BRIGHTLOOM_ADMIN_MAX_FAILURES" default:"5"`
	LockoutWindow  time.Duration `envconfig:"BRIGHTLOOM_ADMIN_LOCKOUT_WINDOW" default:"15m"`
	JWTSecret      string        `envconfig:"BRIGHTLOOM_ADMIN_JWT_SECRET"`
	JWTIssuer      string        `envconfig:"BRIGHTLOOM_ADMIN_JWT_ISSUER" default:"brightloom-storefront"`
}

type FeaturesConfig struct {
	UseSQLite   bool `envconfig:"BRIGHTLOOM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BRIGHTLOOM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if parts[env] == "" {
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
