package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds configuration for the database and its connection pool
type DatabaseConfig struct {
	Driver   string `mapstructure:"DB_DRIVER"`
	Path     string `mapstructure:"DB_PATH"`
	Host     string `mapstructure:"DB_HOST"`
	Port     string `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
	Seed     bool   `mapstructure:"DB_SEED"`

	MaxOpenConns       int `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns       int `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime    int `mapstructure:"DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime    int `mapstructure:"DB_CONN_MAX_IDLE_TIME"`
	PoolTimeoutSeconds int `mapstructure:"DB_POOL_TIMEOUT_SECONDS"`
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	HTTPHost               string   `mapstructure:"HTTP_HOST"`
	HTTPPort               string   `mapstructure:"HTTP_PORT"`
	GRPCPort               string   `mapstructure:"GRPC_PORT"`
	CORSAllowedOrigins     []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies         []string `mapstructure:"TRUSTED_PROXIES"`
	SwaggerEnabled         bool     `mapstructure:"SWAGGER_ENABLED"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
	Environment      string  `mapstructure:"APP_ENV"`
}

// RedisConfig holds configuration for the optional Redis connection.
// An empty Host disables Redis.
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
}

// Enabled reports whether a Redis host has been configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// RateLimitConfig holds configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST"`
}

// LoadConfig reads configuration from an app.env file in path and from environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // Read from environment variables

	// Defaults depend on APP_ENV, so they come after AutomaticEnv
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	config.DB.Path = v.GetString("DB_PATH")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.Seed = v.GetBool("DB_SEED")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")
	config.DB.PoolTimeoutSeconds = v.GetInt("DB_POOL_TIMEOUT_SECONDS")

	config.App.HTTPHost = v.GetString("HTTP_HOST")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	config.App.TrustedProxies = splitList(v.GetString("TRUSTED_PROXIES"))
	config.App.SwaggerEnabled = v.GetBool("SWAGGER_ENABLED")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")
	config.Logger.Environment = v.GetString("APP_ENV")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "users.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "users")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SEED", true)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("DB_POOL_TIMEOUT_SECONDS", 5)

	v.SetDefault("HTTP_HOST", "127.0.0.1")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_PORT", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("SWAGGER_ENABLED", true)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-crud-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// Validate checks the configuration for values the application cannot start with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres, DriverMySQL:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the %s driver", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.DB.MaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	if c.DB.PoolTimeoutSeconds <= 0 {
		return errors.New("DB_POOL_TIMEOUT_SECONDS must be positive")
	}

	if c.App.HTTPPort == "" {
		return errors.New("HTTP_PORT is required")
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return errors.New("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
		}
		if c.RateLimit.BurstCapacity <= 0 {
			return errors.New("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
		}
	}

	return nil
}

// DSN returns the Data Source Name for the configured driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
		}
		return dsn.String()
	case DriverMySQL:
		// ClientFoundRows makes an UPDATE that rewrites identical values
		// still report the matched row.
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, c.Port)
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	default:
		return SQLiteDSN(c.Path)
	}
}

// SQLiteDSN builds a SQLite DSN with WAL journaling and a busy timeout so that
// concurrent writers from the pool wait for the lock instead of failing.
func SQLiteDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

// HTTPAddress returns the HTTP bind address
func (c *AppConfig) HTTPAddress() string {
	return c.HTTPHost + ":" + c.HTTPPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
