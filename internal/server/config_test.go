package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.ShutdownTimeoutDuration() != DefaultShutdownTimeout {
		t.Fatalf("expected default shutdown timeout, got %s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
shutdownTimeout: 5s
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
reference:
  tablesFile: tables/2025.yaml
analysis:
  allowNonConforming: true
listings:
  directoryFile: listings.yaml
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}

	if cfg.ShutdownTimeoutDuration() != 5*time.Second {
		t.Fatalf("expected shutdown timeout 5s, got %s", cfg.ShutdownTimeoutDuration())
	}

	analyzer := cfg.Analyzer()
	if !analyzer.Analysis.AllowNonConforming {
		t.Fatal("expected allowNonConforming to be carried into the analyzer config")
	}
	if analyzer.Reference.TablesFile != filepath.Join(dir, "tables", "2025.yaml") {
		t.Fatalf("expected tables file override, got %s", analyzer.Reference.TablesFile)
	}
	if analyzer.Listings.DirectoryFile != filepath.Join(dir, "listings.yaml") {
		t.Fatalf("expected listing directory override, got %s", analyzer.Listings.DirectoryFile)
	}
}

func TestLoadConfigAbsolutePathsKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")
	tables := filepath.Join(t.TempDir(), "tables.yaml")

	if err := os.WriteFile(path, []byte("reference:\n  tablesFile: "+tables+"\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Reference.TablesFile != tables {
		t.Fatalf("expected absolute tables file to be kept, got %s", cfg.Reference.TablesFile)
	}
	if cfg.Listings.DirectoryFile != "" {
		t.Fatalf("expected no listing directory, got %s", cfg.Listings.DirectoryFile)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"size":     "maxUploadSize: invalid",
		"timeout":  "shutdownTimeout: soon",
		"not yaml": "address: [unterminated",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected an error but got nil")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
	if _, err := ParseSize("9999999999999G"); err == nil {
		t.Fatal("expected error for an overflowing size")
	}
}
