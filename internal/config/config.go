package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/amagambo-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Content providers.
const (
	ProviderGemini  = "gemini"
	ProviderCatalog = "catalog"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`      // current application environment (local, dev, production etc)
	Timezone         string    `mapstructure:"timezone"` // location calendar days are counted in
	TelegramAPIToken string    `mapstructure:"-"`        // Telegram API token loaded from environment
	Storage          Storage   `mapstructure:"storage"`
	DB               DB        `mapstructure:"database"` // database configuration section
	Content          Content   `mapstructure:"content"`
	Session          Session   `mapstructure:"session"`
	Reminders        Reminders `mapstructure:"reminders"`
}

// Storage selects where learner state is kept.
type Storage struct {
	Driver     string `mapstructure:"driver"`      // postgres, sqlite or memory
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Content configures where vocabulary comes from.
type Content struct {
	Provider    string        `mapstructure:"provider"`     // gemini or catalog
	Model       string        `mapstructure:"model"`        // Gemini model name
	APIKey      string        `mapstructure:"-"`            // Gemini API key loaded from environment
	CatalogPath string        `mapstructure:"catalog_path"` // YAML or XLSX word list for the catalog provider
	Timeout     time.Duration `mapstructure:"timeout"`      // deadline for a single generation request
}

// Session holds per-session quotas.
type Session struct {
	LearnCount      int `mapstructure:"learn_count"`
	GuestLearnCount int `mapstructure:"guest_learn_count"`
}

// Reminders configures the daily due reminder.
type Reminders struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"` // cron expression evaluated in Timezone
}

// Token returns the Telegram API token if it is configured.
func (c *Config) Token() (string, error) {
	if c.TelegramAPIToken == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return c.TelegramAPIToken, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := entities.ParseTimezoneLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Values already present in the environment win over the .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/amagambo.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("content.provider", ProviderGemini)
	v.SetDefault("content.model", "gemini-2.5-flash")
	v.SetDefault("content.catalog_path", "config/catalog.yaml")
	v.SetDefault("content.timeout", "45s")
	v.SetDefault("session.learn_count", 5)
	v.SetDefault("session.guest_learn_count", 3)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.spec", "0 9 * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Content.APIKey = v.GetString("gemini_api_key")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: storage.sqlite_path is empty", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.Content.Provider {
	case ProviderGemini:
		if c.Content.APIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingEnvironmentVariables)
		}
	case ProviderCatalog:
		if c.Content.CatalogPath == "" {
			return fmt.Errorf("%w: content.catalog_path is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: content.provider %q", ErrInvalidConfig, c.Content.Provider)
	}

	if c.Session.LearnCount < 1 || c.Session.GuestLearnCount < 1 {
		return fmt.Errorf("%w: session counts must be positive", ErrInvalidConfig)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}
