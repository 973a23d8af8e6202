package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	AMQP      AMQPConfig
	Email     EmailConfig
	Cron      CronConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port            string
	CORSOrigins     string
	AdminAssetsDir  string
	SecureCookies   bool
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret                string
	SessionTTL               time.Duration
	BcryptCost               int
	RequireEmailConfirmation bool
	AllowSignup              bool
	DefaultAdminEmail        string
	DefaultAdminPassword     string
}

type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	LocalDir      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled        bool
	Prefix         string
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	NotifyTo     string
}

type CronConfig struct {
	DigestSchedule string
	PurgeSchedule  string
}

type LoggingConfig struct {
	Level   string
	Service string
}

const minSecretLength = 32

func Load() *Config {
	godotenv.Load() // .env is optional

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
			AdminAssetsDir:  getEnv("ADMIN_ASSETS_DIR", ""),
			SecureCookies:   getEnvBool("COOKIE_SECURE", true),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:                getEnv("JWT_SECRET", ""),
			SessionTTL:               getEnvDuration("SESSION_TTL", 24*time.Hour),
			BcryptCost:               getEnvInt("BCRYPT_COST", 10),
			RequireEmailConfirmation: getEnvBool("REQUIRE_EMAIL_CONFIRMATION", false),
			AllowSignup:              getEnvBool("ALLOW_SIGNUP", false),
			DefaultAdminEmail:        getEnv("DEFAULT_ADMIN_EMAIL", "info.mannadomeestate@gmail.com"),
			DefaultAdminPassword:     getEnv("DEFAULT_ADMIN_PASSWORD", ""),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			Region:        getEnv("S3_REGION", "auto"),
			AccessKey:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:        getEnv("S3_BUCKET", "property-images"),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			LocalDir:      getEnv("UPLOAD_DIR", "uploads"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "mannadome:rl"),
			Capacity:       getEnvInt("RATE_LIMIT_CAPACITY", 10),
			RefillTokens:   getEnvInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: getEnvDuration("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
			TTL:            getEnvDuration("RATE_LIMIT_TTL", 10*time.Minute),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", true),
			TTL:     getEnvDuration("CACHE_TTL", time.Minute),
		},
		AMQP: AMQPConfig{
			URL:   getEnv("AMQP_URL", ""),
			Queue: getEnv("AMQP_QUEUE", "inquiry.created"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "Mannadome Estate <noreply@mannadome.com>"),
			NotifyTo:     getEnv("INQUIRY_NOTIFY_TO", ""),
		},
		Cron: CronConfig{
			DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 7 * * *"),
			PurgeSchedule:  getEnv("SESSION_PURGE_SCHEDULE", "@hourly"),
		},
		Logging: LoggingConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("LOG_SERVICE", "mannadome-api"),
		},
	}
}

// Validate checks the settings every database-backed command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}
