// Package config provides configuration management for the converter.
// It loads a YAML configuration file and applies overrides from the
// environment, including a .env file when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	IMAP   IMAPConfig   `yaml:"imap"`
	Ledger LedgerConfig `yaml:"ledger"`
	Output OutputConfig `yaml:"output"`
	Debug  bool         `yaml:"debug"`
}

// IMAPConfig represents message-store connection configuration.
type IMAPConfig struct {
	Server string `yaml:"server"`
	Email  string `yaml:"email"`
	Folder string `yaml:"folder"`

	// Password comes from the environment or the OS keychain only; it is
	// never read from the config file.
	Password string `yaml:"-"`
}

// LedgerConfig represents OFX statement configuration.
type LedgerConfig struct {
	Currency string `yaml:"currency"`
	BankID   string `yaml:"bank_id"`
}

// OutputConfig represents output and run-history paths.
type OutputConfig struct {
	Root   string `yaml:"root"`
	DBPath string `yaml:"db_path"`
}

// Load loads configuration from a YAML file and the environment. A .env
// file in the current directory is loaded first when present; environment
// variables override file values.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; explicit environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.IMAP.Folder == "" {
		cfg.IMAP.Folder = "Apple Receipts"
	}
	if cfg.Ledger.Currency == "" {
		cfg.Ledger.Currency = "USD"
	}
	if cfg.Output.Root == "" {
		cfg.Output.Root = "."
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.IMAP.Server, "IMAP_SERVER")
	setFromEnv(&cfg.IMAP.Email, "IMAP_EMAIL")
	setFromEnv(&cfg.IMAP.Folder, "IMAP_FOLDER")
	setFromEnv(&cfg.IMAP.Password, "IMAP_PASSWORD")
	setFromEnv(&cfg.Ledger.Currency, "LEDGER_CURRENCY")
	setFromEnv(&cfg.Ledger.BankID, "LEDGER_BANK_ID")
	setFromEnv(&cfg.Output.Root, "OUTPUT_ROOT")
	setFromEnv(&cfg.Output.DBPath, "OUTPUT_DB_PATH")

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// Validate validates the configuration. It checks that all required fields
// are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "imap":
			switch path[1] {
			case "server":
				value = c.IMAP.Server
			case "email":
				value = c.IMAP.Email
			case "folder":
				value = c.IMAP.Folder
			}
		case "ledger":
			switch path[1] {
			case "currency":
				value = c.Ledger.Currency
			case "bankId":
				value = c.Ledger.BankID
			}
		case "output":
			switch path[1] {
			case "root":
				value = c.Output.Root
			case "dbPath":
				value = c.Output.DBPath
			}
		}

		if value == "" {
			missing = append(missing, joinPath(path))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your config file or environment variables", missing)
	}

	return nil
}

// joinPath joins a path slice into a dot-separated string.
func joinPath(path []string) string {
	result := ""
	for i, p := range path {
		if i > 0 {
			result += "."
		}
		result += p
	}
	return result
}
