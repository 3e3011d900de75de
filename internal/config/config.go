package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StorePGX    = "pgx"
	StoreRedis  = "redis"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string

	// Transport
	DiscordToken  string
	CommandPrefix string // Optional, e.g. "!" to only react to "!createGoal ..."

	// Storage backend: memory, file, sqlite, pgx, redis
	StoreDriver  string
	DBConnection string

	// Snapshot files (STORE_DRIVER=file)
	SnapshotBackend string // "file" or "s3"
	SnapshotDir     string
	SnapshotCodec   string // "json" or "msgpack"

	// Storage (S3-compatible, used when SNAPSHOT_BACKEND=s3)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3Prefix    string

	// Redis (STORE_DRIVER=redis)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Overdue scanner
	ScanInterval      time.Duration
	OverdueRepeat     bool   // Re-announce overdue goals on every tick
	AnnounceChannelID string // Fallback channel for goals created outside a channel

	// Dates without an explicit offset are read in this location
	Timezone *time.Location

	// Observability (optional)
	SentryDSN string
}

// Load reads configuration from the environment (and .env if present).
// Validation errors are returned instead of exiting so cobra can report them.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	tz, err := time.LoadLocation(envString("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "goalbot"),
		AppEnv:  envString("APP_ENV", "development"),

		DiscordToken:  envString("DISCORD_TOKEN", ""),
		CommandPrefix: envString("COMMAND_PREFIX", ""),

		StoreDriver:  envString("STORE_DRIVER", StoreSQLite),
		DBConnection: envString("DB_CONNECTION", "./data/goalbot.db?_pragma=journal_mode(WAL)"),

		SnapshotBackend: envString("SNAPSHOT_BACKEND", "file"),
		SnapshotDir:     envString("SNAPSHOT_DIR", "./data"),
		SnapshotCodec:   envString("SNAPSHOT_CODEC", "json"),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3Prefix:    envString("S3_PREFIX", "goalbot/"),

		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		RedisPrefix:   envString("REDIS_PREFIX", "goalbot:"),

		ScanInterval:      envDuration("SCAN_INTERVAL", time.Minute),
		OverdueRepeat:     envBool("OVERDUE_REPEAT", true),
		AnnounceChannelID: envString("ANNOUNCE_CHANNEL_ID", ""),

		Timezone: tz,

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks combinations that only fail once the bot is running.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreFile, StoreSQLite, StorePGX, StoreRedis:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (valid: memory, file, sqlite, pgx, redis)", c.StoreDriver)
	}

	if c.StoreDriver == StoreFile && c.SnapshotBackend == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("SNAPSHOT_BACKEND=s3 requires S3_BUCKET")
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %s", c.ScanInterval)
	}

	return nil
}

// RequireDiscord is checked by commands that connect to Discord.
func (c *Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
