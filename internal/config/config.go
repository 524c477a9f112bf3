package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Word sources
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken      string
	DefaultLocale string

	Words    WordsConfig
	HTTP     HTTPConfig
	Speech   SpeechConfig
	Session  SessionConfig
	Database DatabaseConfig
}

// WordsConfig describes where the vocabulary comes from
type WordsConfig struct {
	Source        string
	URL           string
	PublicBaseURL string
	FetchTimeout  time.Duration
}

// HTTPConfig holds settings of the built-in words server
type HTTPConfig struct {
	Addr           string
	WordsFile      string
	ImagesDir      string
	AllowedOrigins []string
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	Enabled    bool
	ESpeakPath string
	Speed      int
}

// SessionConfig holds in-memory session settings
type SessionConfig struct {
	IdleTTL time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	fetchTimeout, err := getDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	idleTTL, err := getDuration("SESSION_IDLE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	speechEnabled, err := getBool("SPEECH_ENABLED", false)
	if err != nil {
		return nil, err
	}
	speechSpeed, err := getInt("SPEECH_SPEED", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ru"),
		Words: WordsConfig{
			Source:        strings.ToLower(getEnv("WORDS_SOURCE", SourceHTTP)),
			URL:           getEnv("WORDS_URL", "http://localhost:8080/words.json"),
			PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
			FetchTimeout:  fetchTimeout,
		},
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			WordsFile:      getEnv("WORDS_FILE", "words.json"),
			ImagesDir:      getEnv("IMAGES_DIR", "images"),
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Speech: SpeechConfig{
			Enabled:    speechEnabled,
			ESpeakPath: getEnv("ESPEAK_PATH", "espeak-ng"),
			Speed:      speechSpeed,
		},
		Session: SessionConfig{
			IdleTTL: idleTTL,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "flashcards"),
			User:     getEnv("DB_USER", "flashcards"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	switch cfg.Words.Source {
	case SourceHTTP:
		if cfg.Words.URL == "" {
			return nil, fmt.Errorf("WORDS_URL is required for the http source")
		}
	case SourcePostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required for the postgres source")
		}
	default:
		return nil, fmt.Errorf("WORDS_SOURCE must be %q or %q, got %q", SourceHTTP, SourcePostgres, cfg.Words.Source)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
