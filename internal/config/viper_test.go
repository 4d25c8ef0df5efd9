package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/ledgerdash/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "2006-01-02 15:04", config.CSV.DateFormat)
	assert.Equal(t, 1000, config.Storage.DebounceMS)
	assert.Equal(t, 100, config.Storage.BackupEvery)
	assert.Equal(t, "categories.yaml", config.Categories.File)
	assert.Equal(t, "confirm", config.Ledger.NegativeBalancePolicy)
	assert.Equal(t, "JACK", config.Ledger.OrderOwner)
	assert.Equal(t, "usd", config.Ledger.ReferenceCurrency)
	assert.Equal(t, DefaultUsers(), config.Auth.Users)

	assert.Equal(t, time.Second, config.DebounceDelay())
	assert.Equal(t, ledger.PolicyConfirm, config.Policy())
	assert.Equal(t, ',', config.Delimiter())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"LEDGERDASH_LOG_LEVEL":                      "debug",
		"LEDGERDASH_LOG_FORMAT":                     "json",
		"LEDGERDASH_CSV_DELIMITER":                  ";",
		"LEDGERDASH_STORAGE_DIRECTORY":              "/tmp/ledger",
		"LEDGERDASH_STORAGE_DEBOUNCE_MS":            "250",
		"LEDGERDASH_LEDGER_NEGATIVE_BALANCE_POLICY": "reject",
		"LEDGERDASH_LEDGER_ORDER_OWNER":             "AMiR",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, "/tmp/ledger", config.DataDirectory())
	assert.Equal(t, 250*time.Millisecond, config.DebounceDelay())
	assert.Equal(t, ledger.PolicyReject, config.Policy())
	assert.Equal(t, "AMiR", config.Ledger.OrderOwner)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	chdir(t, tempDir)

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
storage:
  backup_every: 10
ledger:
  negative_balance_policy: allow
auth:
  users:
    - username: Sara
      password_hash: "$2a$10$abcdefghijklmnopqrstuu"
      role: admin
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 10, config.Storage.BackupEvery)
	assert.Equal(t, ledger.PolicyAllow, config.Policy())
	require.Len(t, config.Auth.Users, 1)
	assert.Equal(t, "Sara", config.Auth.Users[0].Username)
	assert.Equal(t, "admin", config.Auth.Users[0].Role)
}

func TestInitializeConfigFile_Explicit(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	file := filepath.Join(t.TempDir(), "ledger.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: error\n"), 0600))

	config, err := InitializeConfigFile(file)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)

	_, err = InitializeConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	chdir(t, tempDir)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
storage:
  debounce_ms: 500
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("LEDGERDASH_LOG_LEVEL", "error")
	t.Setenv("LEDGERDASH_STORAGE_DEBOUNCE_MS", "50")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 50, config.Storage.DebounceMS)
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.CSV.Delimiter = ","
	c.Storage.DebounceMS = 1000
	c.Storage.BackupEvery = 100
	c.Ledger.NegativeBalancePolicy = "confirm"
	c.Ledger.OrderOwner = "JACK"
	c.Ledger.ReferenceCurrency = "usd"
	c.Auth.Users = DefaultUsers()
	return c
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "negative debounce",
			modifyConfig: func(c *Config) { c.Storage.DebounceMS = -1 },
			expectError:  "storage.debounce_ms must be between 0 and 60000",
		},
		{
			name:         "backup interval",
			modifyConfig: func(c *Config) { c.Storage.BackupEvery = 0 },
			expectError:  "storage.backup_every must be at least 1",
		},
		{
			name:         "unknown policy",
			modifyConfig: func(c *Config) { c.Ledger.NegativeBalancePolicy = "maybe" },
			expectError:  "ledger.negative_balance_policy",
		},
		{
			name:         "empty order owner",
			modifyConfig: func(c *Config) { c.Ledger.OrderOwner = " " },
			expectError:  "ledger.order_owner cannot be empty",
		},
		{
			name:         "unknown reference currency",
			modifyConfig: func(c *Config) { c.Ledger.ReferenceCurrency = "eur" },
			expectError:  "ledger.reference_currency",
		},
		{
			name: "user without credentials",
			modifyConfig: func(c *Config) {
				c.Auth.Users = []UserConfig{{Username: "x", Role: "user"}}
			},
			expectError: "password or password_hash required",
		},
		{
			name: "user with bad role",
			modifyConfig: func(c *Config) {
				c.Auth.Users = []UserConfig{{Username: "x", Password: "1", Role: "root"}}
			},
			expectError: "invalid role",
		},
		{
			name: "duplicate user",
			modifyConfig: func(c *Config) {
				c.Auth.Users = append(c.Auth.Users, UserConfig{Username: "Amir", Password: "1", Role: "user"})
			},
			expectError: "duplicate username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.NoError(t, validateConfig(validConfig()))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "text format info level", level: "info", format: "text"},
		{name: "json format debug level", level: "debug", format: "json"},
		{name: "bad level falls back", level: "loud", format: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			config.Log.Level = tt.level
			config.Log.Format = tt.format
			logger := ConfigureLoggingFromConfig(config)
			assert.NotNil(t, logger)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEDGERDASH_TEST_VALUE=from-dotenv\n"), 0600))
	t.Setenv("LEDGERDASH_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("LEDGERDASH_TEST_VALUE"))

	assert.Equal(t, ".env", loadEnvFile())
	assert.Equal(t, "from-dotenv", GetEnv("LEDGERDASH_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("LEDGERDASH_TEST_MISSING", "fallback"))
}

// clearTestEnvVars unsets every override the tests rely on; t.Setenv
// restores the previous values afterwards.
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"LEDGERDASH_LOG_LEVEL",
		"LEDGERDASH_LOG_FORMAT",
		"LEDGERDASH_CSV_DELIMITER",
		"LEDGERDASH_CSV_DATE_FORMAT",
		"LEDGERDASH_STORAGE_DIRECTORY",
		"LEDGERDASH_STORAGE_DEBOUNCE_MS",
		"LEDGERDASH_STORAGE_BACKUP_EVERY",
		"LEDGERDASH_CATEGORIES_FILE",
		"LEDGERDASH_LEDGER_NEGATIVE_BALANCE_POLICY",
		"LEDGERDASH_LEDGER_ORDER_OWNER",
		"LEDGERDASH_LEDGER_REFERENCE_CURRENCY",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}

func TestDefaults(t *testing.T) {
	config := Defaults()
	require.NoError(t, validateConfig(config))
	assert.Equal(t, DefaultUsers(), config.Auth.Users)
	assert.Equal(t, 100, config.Storage.BackupEvery)
}
