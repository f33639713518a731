package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"gopkg.in/yaml.v3"
)

// DefaultShutdownTimeout is how long in-flight requests get to finish on
// SIGINT or SIGTERM.
const DefaultShutdownTimeout = 15 * time.Second

// Config is the deal-analyzer-server configuration file. The reference,
// analysis and listings sections mirror the CLI configuration.
type Config struct {
	Address         string                 `yaml:"address"`
	MaxUploadSize   string                 `yaml:"maxUploadSize"`
	ShutdownTimeout string                 `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig   `yaml:"logging"`
	Reference       config.ReferenceConfig `yaml:"reference"`
	Analysis        analysis.Options       `yaml:"analysis"`
	Listings        config.ListingsConfig  `yaml:"listings"`

	uploadSizeBytes int64
	shutdownTimeout time.Duration
}

// sizeUnits are the accepted maxUploadSize suffixes, in bytes.
var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// LoadConfig reads the server configuration at path. A missing file yields
// the defaults. Relative reference and listing paths resolve against the
// file's directory.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config %s: %w", path, err)
			}
			cfg.Reference.TablesFile = relativeTo(path, cfg.Reference.TablesFile)
			cfg.Listings.DirectoryFile = relativeTo(path, cfg.Listings.DirectoryFile)
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func relativeTo(configPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), path)
}

// Analyzer returns the analysis settings as a deal-analyzer configuration,
// for loading reference tables and the listing directory.
func (c *Config) Analyzer() *config.Configuration {
	return &config.Configuration{
		Logging:   c.Logging,
		Reference: c.Reference,
		Analysis:  c.Analysis,
		Listings:  c.Listings,
	}
}

// UploadSizeBytes is the largest listing page /api/analyze/page accepts.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes applies a -max-upload-size override; non-positive sizes
// are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
}

// ShutdownTimeoutDuration is the graceful shutdown window.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.shutdownTimeout
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("maxUploadSize: %w", err)
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)

	c.shutdownTimeout = DefaultShutdownTimeout
	if raw := strings.TrimSpace(c.ShutdownTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("shutdownTimeout: %w", err)
		}
		if timeout > 0 {
			c.shutdownTimeout = timeout
		}
	}
	return nil
}

// ParseSize reads byte counts such as "512", "256K" or "2MB", using binary
// multiples. A blank value is the default upload size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	unit := strings.TrimSpace(trimmed[len(digits):])
	digits = strings.TrimSpace(digits)
	if digits == "" {
		return 0, fmt.Errorf("invalid size %q", value)
	}

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size %q overflows", value)
	}
	return n * multiplier, nil
}
