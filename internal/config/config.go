package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Captcha  CaptchaConfig
	Storage  StorageConfig
	Mail     MailConfig
	CORS     CORSConfig
	Worker   WorkerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"lead-service"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"PORT" envDefault:"5000"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	BodyLimitBytes        int    `env:"HTTP_BODY_LIMIT_BYTES" envDefault:"20971520"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory development store.
type PostgresConfig struct {
	DSN            string `env:"DATABASE_URL"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret  string   `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL   Lifetime `env:"JWT_EXPIRE" envDefault:"7d"`
	BcryptCost int      `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// CaptchaConfig configures Turnstile verification. An empty secret bypasses it.
type CaptchaConfig struct {
	SecretKey string        `env:"CLOUDFLARE_TURNSTILE_SECRET_KEY"`
	VerifyURL string        `env:"TURNSTILE_VERIFY_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	Timeout   time.Duration `env:"TURNSTILE_TIMEOUT" envDefault:"5s"`
}

// StorageConfig configures résumé storage.
type StorageConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" envDefault:"yatindia"`
	LocalDir  string `env:"UPLOAD_DIR" envDefault:"resumes"`
}

// RemoteEnabled reports whether all Cloudinary credentials are present.
func (s StorageConfig) RemoteEnabled() bool {
	return s.CloudName != "" && s.APIKey != "" && s.APISecret != ""
}

// MailConfig configures the ZeptoMail client. An empty key disables delivery.
type MailConfig struct {
	APIURL    string        `env:"ZEPTOMAIL_API_URL" envDefault:"https://api.zeptomail.com/v1.1/email"`
	APIKey    string        `env:"ZEPTOMAIL_API_KEY"`
	FromEmail string        `env:"ZEPTOMAIL_FROM_EMAIL" envDefault:"noreply@example.com"`
	FromName  string        `env:"ZEPTOMAIL_FROM_NAME" envDefault:"Website Leads"`
	To        []string      `env:"ZEPTOMAIL_TO_EMAIL" envSeparator:","`
	LogoURL   string        `env:"LOGO_URL"`
	Timeout   time.Duration `env:"ZEPTOMAIL_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether notifications can be delivered.
func (m MailConfig) Enabled() bool {
	return m.APIKey != "" && len(m.To) > 0
}

// CORSConfig lists allowed origins.
type CORSConfig struct {
	AllowedOrigins []string `env:"FRONTEND_URL" envSeparator:"," envDefault:"*"`
}

// WorkerConfig sizes the background notification pool.
type WorkerConfig struct {
	PoolSize    int           `env:"WORKER_POOL_SIZE" envDefault:"4"`
	QueueSize   int           `env:"WORKER_QUEUE_SIZE" envDefault:"256"`
	TaskTimeout time.Duration `env:"WORKER_TASK_TIMEOUT" envDefault:"30s"`
}

// DefaultJWTSecret is the development signing key. Validate rejects it when
// APP_ENV is production.
const DefaultJWTSecret = "dev-secret"

// Load reads configuration from the process environment, applying a local
// .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFrom parses configuration from the given variables only.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.Auth.TokenTTL.Duration() <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if strings.EqualFold(c.App.Env, "production") && c.Auth.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.Worker.PoolSize <= 0 {
		errs = append(errs, errors.New("WORKER_POOL_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
