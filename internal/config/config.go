// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/listing"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"github.com/iwvelando/deal-analyzer/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment variables that override config values,
// e.g. DEAL_ANALYZER_OUTPUT_FORMAT.
const EnvPrefix = "DEAL_ANALYZER"

// ErrNoListingDirectory is returned when no listing directory is configured.
var ErrNoListingDirectory = errors.New("no listing directory configured")

// Configuration holds all configuration for deal-analyzer.
type Configuration struct {
	Logging   LoggingConfig    `yaml:"logging,omitempty"`
	Output    OutputConfig     `yaml:"output,omitempty"`
	Reference ReferenceConfig  `yaml:"reference,omitempty"`
	Analysis  analysis.Options `yaml:"analysis,omitempty"`
	Listings  ListingsConfig   `yaml:"listings,omitempty"`
	Deals     []Deal           `yaml:"deals"`

	baseDir string
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// ReferenceConfig points at a reference table file overriding the built-in
// tables.
type ReferenceConfig struct {
	TablesFile string `yaml:"tablesFile,omitempty"`
}

// ListingsConfig points at an MLS listing export used for lookups.
type ListingsConfig struct {
	DirectoryFile string `yaml:"directoryFile,omitempty"`
}

// Deal is one property to analyse. Inputs are kept loosely typed until
// PropertyInputs decodes them so that every bad field is reported at once.
type Deal struct {
	Name     string                 `yaml:"name"`
	Active   bool                   `yaml:"active"`
	Inputs   map[string]interface{} `yaml:"inputs"`
	Borrower *deal.Borrower         `yaml:"borrower,omitempty"`
	Offer    *optimization.Target   `yaml:"offer,omitempty"`
}

// PropertyInputs decodes the deal's inputs.
func (d Deal) PropertyInputs() (deal.PropertyInputs, error) {
	inputs, err := deal.DecodeInputs(d.Inputs)
	if err != nil {
		return inputs, fmt.Errorf("deal %q: %w", d.Name, err)
	}
	return inputs, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Relative table and listing paths are resolved against
// the config file's directory.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	conf, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	conf.baseDir = filepath.Dir(configPath)
	return conf, nil
}

// LoadConfigurationFromReader loads a YAML configuration from r. Relative
// paths are left as given.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("analysis.allowNonConforming", false)
	return v
}

func unmarshal(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		deal.NumericDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&configuration, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ReferenceTables returns the configured reference tables, or the built-in
// tables when no file is configured.
func (c *Configuration) ReferenceTables() (*reference.Tables, error) {
	if c.Reference.TablesFile == "" {
		return reference.Default(), nil
	}
	return reference.LoadFile(c.resolve(c.Reference.TablesFile))
}

// ListingDirectory loads the configured listing directory.
func (c *Configuration) ListingDirectory(logger *zap.Logger) (*listing.Directory, error) {
	if c.Listings.DirectoryFile == "" {
		return nil, ErrNoListingDirectory
	}
	return listing.LoadDirectory(logger, c.resolve(c.Listings.DirectoryFile))
}

// ActiveDeals returns the deals marked active, in configuration order.
func (c *Configuration) ActiveDeals() []Deal {
	var active []Deal
	for _, d := range c.Deals {
		if d.Active {
			active = append(active, d)
		}
	}
	return active
}

func (c *Configuration) resolve(path string) string {
	if c.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	deals := make([]validation.DealConfig, 0, len(c.Deals))
	for _, d := range c.Deals {
		deals = append(deals, validation.DealConfig{
			Name:        d.Name,
			Active:      d.Active,
			InputFields: len(d.Inputs),
			HasBorrower: d.Borrower != nil,
		})
	}

	validator := validation.ConfigValidator{
		OutputFormat:  c.Output.Format,
		LoggingFormat: c.Logging.Format,
		Deals:         deals,
	}
	return validator.ValidateAll()
}
