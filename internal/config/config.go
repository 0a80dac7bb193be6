package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"flashdeck/pkg/validator"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env             string `validate:"oneof=development production staging test"`
	Database        DatabaseConfig
	CardsTable      string `validate:"required,max=63"`
	LLM             LLMConfig
	DefaultLanguage string        `validate:"required"`
	HTTPAddr        string        `validate:"required"`
	SessionTTL      time.Duration `validate:"gt=0"`
	MigrationsPath  string        `validate:"required"`
	BotToken        string
	AdminAddr       string `validate:"required"`
	AdminSecret     string
}

// DatabaseConfig holds database connection settings.
// URL, when set, replaces the individual fields.
type DatabaseConfig struct {
	URL      string
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string
	SSLMode  string `validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// LLMConfig points at an OpenAI-compatible chat-completion endpoint
type LLMConfig struct {
	BaseURL string `validate:"required,url"`
	Model   string `validate:"required"`
	APIKey  string
	Timeout time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := getDuration("LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("ENV", "production"),
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", os.Getenv("PG_CONNECTION_STRING")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "flashdeck"),
			User:     getEnv("DB_USER", "flashdeck"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		CardsTable: getEnv("CARDS_TABLE", "flashcards"),
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "http://localhost:11434/v1"),
			Model:   getEnv("LLM_MODEL", "gemma3:12b"),
			APIKey:  getEnv("LLM_API_KEY", "ollama"),
			Timeout: llmTimeout,
		},
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "Latin"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		SessionTTL:      sessionTTL,
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "file://migrations"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		AdminAddr:       getEnv("ADMIN_ADDR", ":"+getEnv("PORT", "8787")),
		AdminSecret:     os.Getenv("ADMIN_SECRET"),
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HasDatabase reports whether enough settings exist to reach the database
func (c *Config) HasDatabase() bool {
	return c.Database.URL != "" || c.Database.Password != ""
}

// RequireDatabase fails when the database cannot be reached with the settings
func (c *Config) RequireDatabase() error {
	if !c.HasDatabase() {
		return errors.New("DB_PASSWORD or DATABASE_URL is required")
	}
	return nil
}

// RequireBot fails when the Telegram front-end cannot start
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	return c.RequireDatabase()
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
