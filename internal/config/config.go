package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int
	LogLevel       string
	LogFormat      string
	LogDir         string
	ServiceName    string
	Version        string
	Environment    string
	APIKey         string // API key for the admin HTTP API
	TrustedProxies []string
	AdminRateLimit float64
	AdminRateBurst int

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	DiscordToken   string
	DiscordAppID   string
	DiscordGuildID string // optional, registers commands to one guild

	CooldownBackend string
	DevMode         bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	RenderEnabled bool
	ImageDir      string
	ChromePath    string

	EventSink      string
	AMQPURL        string
	AMQPExchange   string
	KafkaBrokers   []string
	KafkaTopic     string
	DeadLetterPath string

	Game GameSettings
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		ServiceName:    getEnv("SERVICE_NAME", "photocard-bot"),
		Version:        getEnv("VERSION", "dev"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		AdminRateLimit: getEnvAsFloat("ADMIN_RATE_LIMIT", DefaultAdminRateLimit),
		AdminRateBurst: getEnvAsInt("ADMIN_RATE_BURST", DefaultAdminRateBurst),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "photocards"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:   getEnv("DISCORD_APP_ID", ""),
		DiscordGuildID: getEnv("DISCORD_GUILD_ID", ""),

		CooldownBackend: strings.ToLower(getEnv("COOLDOWN_BACKEND", CooldownBackendPostgres)),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),

		RenderEnabled: getEnvAsBool("RENDER_ENABLED", true),
		ImageDir:      getEnv("IMAGE_DIR", "images"),
		ChromePath:    getEnv("CHROME_PATH", ""),

		EventSink:      strings.ToLower(getEnv("EVENT_SINK", "none")),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", ""),
		KafkaBrokers:   getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", ""),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	switch cfg.CooldownBackend {
	case CooldownBackendMemory, CooldownBackendRedis, CooldownBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid COOLDOWN_BACKEND %q: want memory, redis or postgres", cfg.CooldownBackend)
	}

	game, err := LoadGameSettings()
	if err != nil {
		return nil, err
	}
	cfg.Game = game

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
