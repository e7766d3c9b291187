package configs

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Trading  TradingConfig
	Prices   PriceConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string
	OpsPort string
	Env     string
}

// DatabaseConfig holds database configuration; an empty URL selects the in-memory stores
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration; an empty URL disables the leaderboard mirror
type RedisConfig struct {
	URL            string
	LeaderboardKey string
}

// AuthConfig holds admin token configuration
type AuthConfig struct {
	JWTSecret string
}

// TradingConfig holds trade execution and reward settings
type TradingConfig struct {
	StartingGems int64
	StreakWindow time.Duration
	// RateLimit is the number of trade requests per second allowed per client
	RateLimit float64
}

// PriceConfig holds the price drift job settings
type PriceConfig struct {
	DriftSchedule    string
	DriftMaxFraction string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
	Output string
	File   string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			OpsPort: getEnv("OPS_PORT", "9090"),
			Env:     getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			LeaderboardKey: getEnv("REDIS_LEADERBOARD_KEY", "gemtrader:leaderboard"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Trading: TradingConfig{
			StartingGems: getEnvInt64("STARTING_GEMS", 0),
			StreakWindow: getEnvDuration("STREAK_WINDOW", 30*time.Minute),
			RateLimit:    getEnvFloat("TRADE_RATE_LIMIT", 20),
		},
		Prices: PriceConfig{
			DriftSchedule:    getEnv("PRICE_DRIFT_SCHEDULE", "@every 1m"),
			DriftMaxFraction: getEnv("PRICE_DRIFT_MAX_FRACTION", "0.05"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
			File:   getEnv("LOG_FILE", "logs/gemtrader.log"),
		},
	}
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvInt32(key string, defaultValue int32) int32 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 32); err == nil && v >= 0 {
		return int32(v)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
