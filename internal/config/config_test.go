package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "ADVISORY_API_URL", "ADVISORY_API_KEY", "ADVISORY_MODEL", "ADVISORY_TIMEOUT",
	"LEDGER_EXPORT_CRON", "TIMEZONE", "GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_LEDGER_ID",
	"LEDGER_SHEET_RANGE", "MONGODB_URI", "MONGODB_DB_NAME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("ADVISORY_API_URL"))

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "https://api.openai-proxy.com/v1/chat/completions", cfg.Advisory.URL)
	assert.Equal(t, 20*time.Second, cfg.Advisory.Timeout)
	assert.Equal(t, "0 * * * *", cfg.Ledger.ExportCron)
	assert.Equal(t, "Accounts!A:E", cfg.Sheets.LedgerRange)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
}

func TestLoadEmptyAdvisoryURLDisablesEndpoint(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Advisory.URL)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range configKeys {
		// godotenv never overrides variables that are already set.
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nADVISORY_TIMEOUT=5s\nADVISORY_MODEL=gpt-4o-mini\nMONGODB_URI=mongodb://localhost:27017\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, key := range configKeys {
			_ = os.Unsetenv(key)
		}
	})

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Advisory.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Advisory.Model)
	assert.True(t, cfg.MongoDB.Enabled())
	assert.Equal(t, "advisor", cfg.MongoDB.DBName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad timeout", env: map[string]string{"ADVISORY_TIMEOUT": "soon"}},
		{name: "negative timeout", env: map[string]string{"ADVISORY_TIMEOUT": "-1s"}},
		{name: "bad cron", env: map[string]string{"LEDGER_EXPORT_CRON": "every hour"}},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{name: "half sheets config", env: map[string]string{"GOOGLE_SHEET_LEDGER_ID": "sheet-id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
