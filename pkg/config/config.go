package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/joho/godotenv"
)

// DefaultUserID owns the data of a single-user local install.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxProcessorEnabled bool

	// Worker
	HTTPPort string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Planning
	PlanWeeklyCapacity int
	PlanDailyCapacity  int
	PlanWorkdays       string
	PlanAllowWeekends  bool
	PlanHorizonDays    int
	PlanTimezone       string
	PlanNightlyHour    int

	// CalDAV
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string

	// Google Calendar
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("LOCAL_USER_ID", DefaultUserID),

		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		RabbitMQURL:    getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		HTTPPort:     getEnv("HTTP_PORT", "8081"),
		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		PlanWeeklyCapacity: getIntEnv("PLAN_WEEKLY_CAPACITY_MINUTES", domain.DefaultWeeklyCapacityMinutes),
		PlanDailyCapacity:  getIntEnv("PLAN_DAILY_CAPACITY_MINUTES", 0),
		PlanWorkdays:       getEnv("PLAN_WORKDAYS", domain.DefaultWorkdays.String()),
		PlanAllowWeekends:  getBoolEnv("PLAN_ALLOW_WEEKENDS", false),
		PlanHorizonDays:    getIntEnv("PLAN_HORIZON_DAYS", domain.DefaultHorizonDays),
		PlanTimezone:       getEnv("PLAN_TIMEZONE", "Local"),
		PlanNightlyHour:    getIntEnv("PLAN_NIGHTLY_HOUR", 2),

		CalDAVURL:      getEnv("CALDAV_URL", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),
	}

	if cfg.PlanNightlyHour < 0 || cfg.PlanNightlyHour > 23 {
		return nil, fmt.Errorf("PLAN_NIGHTLY_HOUR must be between 0 and 23, got %d", cfg.PlanNightlyHour)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseWorkdaySet(cfg.PlanWorkdays); err != nil {
		return nil, fmt.Errorf("PLAN_WORKDAYS: %w", err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CalDAVEnabled reports whether CalDAV credentials are configured.
func (c *Config) CalDAVEnabled() bool {
	return c.CalDAVURL != "" && c.CalDAVUsername != ""
}

// GoogleEnabled reports whether a Google refresh token is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleRefreshToken != ""
}

// Location is the planning time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.PlanTimezone == "" || strings.EqualFold(c.PlanTimezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.PlanTimezone)
	if err != nil {
		return nil, fmt.Errorf("PLAN_TIMEZONE: %w", err)
	}
	return loc, nil
}

// PlanOptions builds the planning options for a run at now.
func (c *Config) PlanOptions(now time.Time) (domain.AutoPlanOptions, error) {
	loc, err := c.Location()
	if err != nil {
		return domain.AutoPlanOptions{}, err
	}
	workdays, err := domain.ParseWorkdaySet(c.PlanWorkdays)
	if err != nil {
		return domain.AutoPlanOptions{}, fmt.Errorf("PLAN_WORKDAYS: %w", err)
	}

	opts := []domain.AutoPlanOption{
		domain.WithLocation(loc),
		domain.WithWorkdays(workdays),
		domain.WithWeekends(c.PlanAllowWeekends),
		domain.WithWeeklyCapacity(c.PlanWeeklyCapacity),
		domain.WithHorizonDays(c.PlanHorizonDays),
	}
	if c.PlanDailyCapacity > 0 {
		opts = append(opts, domain.WithDailyCapacity(c.PlanDailyCapacity))
	}
	return domain.NewAutoPlanOptions(now, opts...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
