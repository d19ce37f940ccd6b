package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Advisory AdvisoryConfig
	Ledger   LedgerConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// AdvisoryConfig points at the remote text-generation endpoint. An empty URL
// disables the remote path and every answer comes from the local fallback.
type AdvisoryConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LedgerConfig holds the export schedule of the account ledger.
type LedgerConfig struct {
	ExportCron string
	Timezone   string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Sheets support is optional: both fields must be set to enable it.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
}

// Enabled reports whether the spreadsheet backend is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables archiving.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether the archive backend is configured.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

const defaultAdvisoryURL = "https://api.openai-proxy.com/v1/chat/completions"

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("ADVISORY_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISORY_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Advisory: AdvisoryConfig{
			URL:     advisoryURL(),
			APIKey:  os.Getenv("ADVISORY_API_KEY"),
			Model:   os.Getenv("ADVISORY_MODEL"),
			Timeout: timeout,
		},
		Ledger: LedgerConfig{
			ExportCron: getenvWithDefault("LEDGER_EXPORT_CRON", "0 * * * *"),
			Timezone:   getenvWithDefault("TIMEZONE", "Europe/Paris"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
			LedgerRange:     getenvWithDefault("LEDGER_SHEET_RANGE", "Accounts!A:E"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "advisor"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Advisory.Timeout <= 0 {
		return errors.New("ADVISORY_TIMEOUT must be positive")
	}

	if c.Ledger.ExportCron == "" {
		return errors.New("LEDGER_EXPORT_CRON must be provided")
	}
	if _, err := cron.ParseStandard(c.Ledger.ExportCron); err != nil {
		return fmt.Errorf("invalid LEDGER_EXPORT_CRON: %w", err)
	}

	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_LEDGER_ID must be provided together")
	}

	if c.Sheets.Enabled() && c.Sheets.LedgerRange == "" {
		return errors.New("LEDGER_SHEET_RANGE must not be empty")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

// advisoryURL keeps the hosted endpoint as default; an explicitly empty
// ADVISORY_API_URL disables the remote call.
func advisoryURL() string {
	if value, ok := os.LookupEnv("ADVISORY_API_URL"); ok {
		return value
	}
	return defaultAdvisoryURL
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
