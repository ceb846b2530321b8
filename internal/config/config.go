package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Run loop
	TickRateHz      int
	MaxFrameDeltaMs int

	// Idle runs
	RunIdleTimeoutSecs  int
	RunSweepIntervalSec int

	// Leaderboards
	LeaderboardSize int

	// Security
	JWTSecret         string
	SessionTimeoutMin int
	AdminToken        string // empty disables the admin API
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/minigolf?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		TickRateHz:      getEnvInt("TICK_RATE_HZ", 60),
		MaxFrameDeltaMs: getEnvInt("MAX_FRAME_DELTA_MS", 100),

		RunIdleTimeoutSecs:  getEnvInt("RUN_IDLE_TIMEOUT_SECONDS", 900),
		RunSweepIntervalSec: getEnvInt("RUN_SWEEP_INTERVAL_SECONDS", 30),

		LeaderboardSize: getEnvInt("LEADERBOARD_SIZE", 10),

		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 1440),
		AdminToken:        getEnv("ADMIN_TOKEN", ""),
	}
}

// TickInterval is the run loop period derived from TickRateHz.
func (c *Config) TickInterval() time.Duration {
	hz := c.TickRateHz
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// MaxFrameDelta caps the time a single frame may simulate.
func (c *Config) MaxFrameDelta() time.Duration {
	if c.MaxFrameDeltaMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.MaxFrameDeltaMs) * time.Millisecond
}

func (c *Config) RunIdleTimeout() time.Duration {
	return time.Duration(c.RunIdleTimeoutSecs) * time.Second
}

func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMin) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
