package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName       string
	Environment   string
	HTTP          HTTPConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	IdentityCache IdentityCacheConfig
	Analytics     AnalyticsConfig
	CORS          CORSConfig
	Context       ContextConfig
	Logger        LoggerConfig
	Migrations    MigrationsConfig
	Monitor       MonitorConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnableMetrics bool
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
	ConnectRetries  int
}

type RedisConfig struct {
	URL            string
	Password       string
	DB             int
	ConnectRetries int
}

type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// RateLimitConfig uses the limiter "<limit>-<period>" notation, e.g. "10-M".
type RateLimitConfig struct {
	Enabled bool
	Auth    string
	Setup   string
	Prefix  string
}

// IdentityCacheConfig sizes the caller snapshot cache. A zero TTL disables it.
type IdentityCacheConfig struct {
	Size int
	TTL  time.Duration
}

type AnalyticsConfig struct {
	SnapshotPath string
	Schedule     string
	Retention    time.Duration
	ActiveWindow time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
}

type MonitorConfig struct {
	Interval time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "clubportal"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", true),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "clubportal"),
			User:            getString("DB_USER", "clubportal"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
			ConnectRetries:  getInt("DB_CONNECT_RETRIES", 5),
		},
		Redis: RedisConfig{
			URL:            getString("REDIS_URL", "redis://localhost:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             getInt("REDIS_DB", 0),
			ConnectRetries: getInt("REDIS_CONNECT_RETRIES", 5),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			Issuer:     getString("JWT_ISSUER", "clubportal"),
			TokenTTL:   getDuration("TOKEN_TTL", 7*24*time.Hour),
			BcryptCost: getInt("BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBool("RATE_LIMIT_ENABLED", true),
			Auth:    getString("RATE_LIMIT_AUTH", "20-M"),
			Setup:   getString("RATE_LIMIT_SETUP", "5-M"),
			Prefix:  getString("RATE_LIMIT_PREFIX", "clubportal:ratelimit"),
		},
		IdentityCache: IdentityCacheConfig{
			Size: getInt("IDENTITY_CACHE_SIZE", 1024),
			TTL:  getDuration("IDENTITY_CACHE_TTL", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			SnapshotPath: getString("ANALYTICS_SNAPSHOT_PATH", "./data/analytics.db"),
			Schedule:     getString("ANALYTICS_SCHEDULE", "@every 1h"),
			Retention:    getDuration("ANALYTICS_RETENTION", 90*24*time.Hour),
			ActiveWindow: getDuration("ANALYTICS_ACTIVE_WINDOW", 30*24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		if c.IsDevelopment() {
			c.Auth.JWTSecret = "development-secret"
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required outside development"))
		}
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.IdentityCache.Size < 0 {
		errs = append(errs, fmt.Errorf("IDENTITY_CACHE_SIZE must not be negative, got %d", c.IdentityCache.Size))
	}
	if strings.TrimSpace(c.Analytics.Schedule) == "" {
		errs = append(errs, errors.New("ANALYTICS_SCHEDULE is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
