package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "research-tools/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string
	LogFile  string // rotated JSON log file, in addition to stderr

	// Outbound HTTP
	HTTPTimeout  time.Duration
	UserAgent    string
	ContactEmail string // sent to OpenAlex and Crossref for their polite pool

	// Output shaping
	MaxContentLength int   // character budget for long text fields
	MaxItems         int   // list length for search tools
	MaxFetchBytes    int64 // upper bound on any response or request body

	// Discord
	DiscordBotToken  string
	BotCommandPrefix string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", ""),
		LogFile:          getEnv("LOG_FILE", ""),
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		UserAgent:        getEnv("USER_AGENT", "research-tool/1.0"),
		ContactEmail:     getEnv("CONTACT_EMAIL", "research@example.com"),
		MaxContentLength: getEnvInt("MAX_CONTENT_LENGTH", 8000),
		MaxItems:         getEnvInt("MAX_ITEMS", 10),
		MaxFetchBytes:    int64(getEnvInt("MAX_FETCH_BYTES", 2<<20)),
		DiscordBotToken:  getEnv("DISCORD_BOT_TOKEN", ""),
		BotCommandPrefix: getEnv("BOT_COMMAND_PREFIX", "!"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set in the
// environment. Tests and the CLI start from it.
func Default() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		HTTPTimeout:      30 * time.Second,
		UserAgent:        "research-tool/1.0",
		ContactEmail:     "research@example.com",
		MaxContentLength: 8000,
		MaxItems:         10,
		MaxFetchBytes:    2 << 20,
		BotCommandPrefix: "!",
	}
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	switch c.Env {
	case "development", "production", "test":
	default:
		return apperrors.NewConfigValidationFailed("ENV", fmt.Sprintf("unknown environment %q", c.Env))
	}
	if c.HTTPTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("HTTP_TIMEOUT_SECONDS", "must be positive")
	}
	if c.UserAgent == "" {
		return apperrors.NewConfigMissingRequired("USER_AGENT")
	}
	if c.MaxContentLength <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_CONTENT_LENGTH", "must be positive")
	}
	if c.MaxItems <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_ITEMS", "must be positive")
	}
	if c.MaxFetchBytes <= 0 {
		return apperrors.NewConfigValidationFailed("MAX_FETCH_BYTES", "must be positive")
	}
	if c.BotCommandPrefix == "" {
		return apperrors.NewConfigMissingRequired("BOT_COMMAND_PREFIX")
	}
	// Discord token is only checked by the bot entrypoint
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
