package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IMAP_SERVER", "IMAP_EMAIL", "IMAP_FOLDER", "IMAP_PASSWORD",
		"LEDGER_CURRENCY", "LEDGER_BANK_ID", "OUTPUT_ROOT", "OUTPUT_DB_PATH",
		"DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
imap:
  server: imap.example.com:993
  email: owner@example.com
  folder: Receipts
ledger:
  currency: USD
  bank_id: MYBANK
output:
  root: /tmp/statements
  db_path: /tmp/statements/runs.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.IMAP.Server != "imap.example.com:993" {
		t.Errorf("IMAP.Server = %q", cfg.IMAP.Server)
	}
	if cfg.IMAP.Email != "owner@example.com" {
		t.Errorf("IMAP.Email = %q", cfg.IMAP.Email)
	}
	if cfg.IMAP.Folder != "Receipts" {
		t.Errorf("IMAP.Folder = %q", cfg.IMAP.Folder)
	}
	if cfg.Ledger.BankID != "MYBANK" {
		t.Errorf("Ledger.BankID = %q", cfg.Ledger.BankID)
	}
	if cfg.Output.Root != "/tmp/statements" {
		t.Errorf("Output.Root = %q", cfg.Output.Root)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.IMAP.Folder != "Apple Receipts" {
		t.Errorf("default folder = %q, expected Apple Receipts", cfg.IMAP.Folder)
	}
	if cfg.Ledger.Currency != "USD" {
		t.Errorf("default currency = %q, expected USD", cfg.Ledger.Currency)
	}
	if cfg.Output.Root != "." {
		t.Errorf("default output root = %q, expected .", cfg.Output.Root)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
imap:
  server: imap.example.com:993
  email: owner@example.com
`)
	t.Setenv("IMAP_SERVER", "imap.override.com:993")
	t.Setenv("IMAP_PASSWORD", "app-specific-password")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.IMAP.Server != "imap.override.com:993" {
		t.Errorf("IMAP.Server = %q, expected the environment to win", cfg.IMAP.Server)
	}
	if cfg.IMAP.Email != "owner@example.com" {
		t.Errorf("IMAP.Email = %q, expected the file value to survive", cfg.IMAP.Email)
	}
	if cfg.IMAP.Password != "app-specific-password" {
		t.Errorf("IMAP.Password = %q", cfg.IMAP.Password)
	}
	if !cfg.Debug {
		t.Error("Debug should be set from the environment")
	}
}

func TestLoadPasswordNeverFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
imap:
  server: imap.example.com:993
  password: should-be-ignored
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.IMAP.Password != "" {
		t.Errorf("IMAP.Password = %q, expected the file value to be ignored", cfg.IMAP.Password)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		required [][]string
		wantErr  bool
	}{
		{
			"all present",
			Config{IMAP: IMAPConfig{Server: "s", Email: "e"}},
			[][]string{{"imap", "server"}, {"imap", "email"}},
			false,
		},
		{
			"missing server",
			Config{IMAP: IMAPConfig{Email: "e"}},
			[][]string{{"imap", "server"}, {"imap", "email"}},
			true,
		},
		{
			"missing ledger currency",
			Config{},
			[][]string{{"ledger", "currency"}},
			true,
		},
		{
			"nothing required",
			Config{},
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.required...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
