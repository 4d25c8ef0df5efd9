// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEDGERDASH_LOG_LEVEL.
const EnvPrefix = "LEDGERDASH"

// UserConfig is one allow-list entry. Either Password or PasswordHash
// (bcrypt) must be set.
type UserConfig struct {
	Username     string `mapstructure:"username" yaml:"username"`
	Password     string `mapstructure:"password" yaml:"-"`
	PasswordHash string `mapstructure:"password_hash" yaml:"password_hash,omitempty"`
	Role         string `mapstructure:"role" yaml:"role"`
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Storage struct {
		Directory   string `mapstructure:"directory" yaml:"directory"`
		DebounceMS  int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
		BackupEvery int    `mapstructure:"backup_every" yaml:"backup_every"`
	} `mapstructure:"storage" yaml:"storage"`

	CSV struct {
		Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	} `mapstructure:"csv" yaml:"csv"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Ledger struct {
		NegativeBalancePolicy string `mapstructure:"negative_balance_policy" yaml:"negative_balance_policy"`
		OrderOwner            string `mapstructure:"order_owner" yaml:"order_owner"`
		ReferenceCurrency     string `mapstructure:"reference_currency" yaml:"reference_currency"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Auth struct {
		Users []UserConfig `mapstructure:"users" yaml:"users"`
	} `mapstructure:"auth" yaml:"auth"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFile("")
}

// InitializeConfigFile loads configuration like InitializeConfig, reading
// configFile instead of searching the standard locations when it is set.
func InitializeConfigFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledgerdash")
		v.AddConfigPath(".ledgerdash")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Defaults returns the configuration built from defaults alone, ignoring
// files and environment.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return &config
}

// DefaultUsers is the built-in allow-list.
func DefaultUsers() []UserConfig {
	return []UserConfig{
		{Username: "Amir", Password: "2731", Role: "admin"},
		{Username: "Jack", Password: "2731", Role: "user"},
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Storage defaults
	v.SetDefault("storage.directory", "")
	v.SetDefault("storage.debounce_ms", 1000)
	v.SetDefault("storage.backup_every", 100)

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "2006-01-02 15:04")

	v.SetDefault("categories.file", "categories.yaml")

	// Ledger defaults
	v.SetDefault("ledger.negative_balance_policy", string(ledger.DefaultPolicy))
	v.SetDefault("ledger.order_owner", models.DefaultOrderOwner)
	v.SetDefault("ledger.reference_currency", string(models.USD))

	users := make([]map[string]interface{}, 0, 2)
	for _, u := range DefaultUsers() {
		users = append(users, map[string]interface{}{
			"username": u.Username,
			"password": u.Password,
			"role":     u.Role,
		})
	}
	v.SetDefault("auth.users", users)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Storage.DebounceMS < 0 || config.Storage.DebounceMS > 60000 {
		return fmt.Errorf("storage.debounce_ms must be between 0 and 60000, got: %d", config.Storage.DebounceMS)
	}
	if config.Storage.BackupEvery < 1 {
		return fmt.Errorf("storage.backup_every must be at least 1, got: %d", config.Storage.BackupEvery)
	}

	if _, err := ledger.ParsePolicy(config.Ledger.NegativeBalancePolicy); err != nil {
		return fmt.Errorf("ledger.negative_balance_policy: %w", err)
	}
	if strings.TrimSpace(config.Ledger.OrderOwner) == "" {
		return fmt.Errorf("ledger.order_owner cannot be empty")
	}
	if _, err := models.ParseCurrency(config.Ledger.ReferenceCurrency); err != nil {
		return fmt.Errorf("ledger.reference_currency: %w", err)
	}

	seen := make(map[string]bool, len(config.Auth.Users))
	for i, u := range config.Auth.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("auth.users[%d]: username cannot be empty", i)
		}
		if u.Password == "" && u.PasswordHash == "" {
			return fmt.Errorf("auth.users[%d]: password or password_hash required for %s", i, u.Username)
		}
		if u.Role != "admin" && u.Role != "user" {
			return fmt.Errorf("auth.users[%d]: invalid role %q (must be 'admin' or 'user')", i, u.Role)
		}
		if seen[u.Username] {
			return fmt.Errorf("auth.users[%d]: duplicate username %s", i, u.Username)
		}
		seen[u.Username] = true
	}

	return nil
}

// DataDirectory returns the storage directory, defaulting to
// ~/.ledgerdash/data.
func (c *Config) DataDirectory() string {
	if c.Storage.Directory != "" {
		return c.Storage.Directory
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ledgerdash", "data")
	}
	return filepath.Join(homeDir, ".ledgerdash", "data")
}

// DebounceDelay returns the autosave quiet period.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Storage.DebounceMS) * time.Millisecond
}

// Policy returns the configured negative-balance policy.
func (c *Config) Policy() ledger.Policy {
	p, err := ledger.ParsePolicy(c.Ledger.NegativeBalancePolicy)
	if err != nil {
		return ledger.DefaultPolicy
	}
	return p
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
