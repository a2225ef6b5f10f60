package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит конфигурацию времени выполнения для бота вакансий.
type Config struct {
	BotToken                   string
	TelegramAPIURL             string
	TelegramWebhookURL         string
	TelegramWebhookDropPending bool
	WebhookSecret              string
	TelegramTimeout            time.Duration
	TelegramPollingEnabled     bool
	TelegramPollingTimeout     time.Duration
	TelegramPollingInterval    time.Duration
	TelegramPollingLimit       int
	TelegramPollingDropPending bool
	TelegramInboundRateLimit   int
	DatabaseURL                string
	DBDriver                   string
	DBMaxOpenConns             int
	DBMaxIdleConns             int
	DBConnMaxIdle              time.Duration
	DBConnMaxLife              time.Duration
	RedisURL                   string
	StateTTL                   time.Duration
	SeedEnabled                bool
	SeedFile                   string
	Port                       string
	LogLevel                   string
	LogDir                     string
}

// Load читает конфигурацию из переменных окружения. Файл .env, если он есть,
// загружается первым и не перекрывает уже заданные переменные.
func Load() (Config, error) {
	_ = godotenv.Load()

	webhookURL := envOr("TELEGRAM_WEBHOOK_URL", "")
	cfg := Config{
		TelegramAPIURL:             strings.TrimRight(envOr("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		TelegramWebhookURL:         webhookURL,
		TelegramWebhookDropPending: boolOr("TELEGRAM_WEBHOOK_DROP_PENDING", false),
		TelegramTimeout:            durationOr("TELEGRAM_TIMEOUT", 5*time.Second),
		TelegramPollingEnabled:     boolOr("TELEGRAM_POLLING_ENABLED", webhookURL == ""),
		TelegramPollingTimeout:     durationOr("TELEGRAM_POLLING_TIMEOUT", 25*time.Second),
		TelegramPollingInterval:    durationOr("TELEGRAM_POLLING_INTERVAL", time.Second),
		TelegramPollingLimit:       intOr("TELEGRAM_POLLING_LIMIT", 50),
		TelegramPollingDropPending: boolOr("TELEGRAM_POLLING_DROP_PENDING", false),
		TelegramInboundRateLimit:   intOr("TELEGRAM_INBOUND_RATE_LIMIT_PER_MIN", 30),
		DBDriver:                   envOr("DB_DRIVER", "pgx"),
		DBMaxOpenConns:             intOr("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:             intOr("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdle:              durationOr("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:              durationOr("DB_CONN_MAX_LIFE", 30*time.Minute),
		RedisURL:                   envOr("REDIS_URL", ""),
		StateTTL:                   durationOr("STATE_TTL", 0),
		SeedEnabled:                boolOr("SEED_ENABLED", true),
		SeedFile:                   envOr("SEED_FILE", ""),
		Port:                       envOr("PORT", "8080"),
		LogLevel:                   envOr("LOG_LEVEL", "info"),
		LogDir:                     envOr("LOG_DIR", ""),
	}

	cfg.BotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.WebhookSecret = strings.TrimSpace(os.Getenv("TELEGRAM_WEBHOOK_SECRET"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	switch cfg.DBDriver {
	case "pq", "postgresql":
		cfg.DBDriver = "postgres"
	case "pgx/v5":
		cfg.DBDriver = "pgx"
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("missing required env vars: TELEGRAM_BOT_TOKEN")
	}
	if !cfg.TelegramPollingEnabled && cfg.WebhookSecret == "" {
		return Config{}, fmt.Errorf("missing required env vars: TELEGRAM_WEBHOOK_SECRET")
	}
	if cfg.DBDriver != "pgx" && cfg.DBDriver != "postgres" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q: use pgx or postgres", cfg.DBDriver)
	}
	invalid := make([]string, 0, 3)
	if cfg.TelegramInboundRateLimit < 0 {
		invalid = append(invalid, "TELEGRAM_INBOUND_RATE_LIMIT_PER_MIN")
	}
	if cfg.TelegramPollingLimit <= 0 {
		invalid = append(invalid, "TELEGRAM_POLLING_LIMIT")
	}
	if cfg.StateTTL < 0 {
		invalid = append(invalid, "STATE_TTL")
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func intOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func boolOr(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
