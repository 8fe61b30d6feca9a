// Package config defines the data structures related to configuration and
// includes functions for loading and normalizing it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for ecoprice.
type Configuration struct {
	Product pricing.Inputs `yaml:"product" mapstructure:"product"`
	Search  SearchConfig   `yaml:"search,omitempty" mapstructure:"search"`
	Report  ReportConfig   `yaml:"report,omitempty" mapstructure:"report"`
	History HistoryConfig  `yaml:"history,omitempty" mapstructure:"history"`
	Logging LoggingConfig  `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig   `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	CurrencySymbol string `yaml:"currencySymbol,omitempty" mapstructure:"currencySymbol"`
}

// HistoryConfig points at the optional SQLite run history. An empty path
// disables recording.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// newViper returns an isolated viper instance so concurrent loads (one per
// HTTP request) never share state. Environment variables such as
// ECOPRICE_REPORT_APIKEY override file values.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("product.elasticity", constants.DefaultElasticity)
	v.SetDefault("search.sampleCount", constants.DefaultSampleCount)
	v.SetDefault("search.lowerFactor", constants.DefaultLowerFactor)
	v.SetDefault("search.upperFactor", constants.DefaultUpperFactor)
	v.SetDefault("search.floor", constants.DefaultPriceFloor)
	v.SetDefault("report.enabled", false)
	v.SetDefault("report.provider", constants.ReportProviderOpenAI)
	v.SetDefault("report.apiKey", "")
	v.SetDefault("report.model", "")
	v.SetDefault("report.baseURL", "")
	v.SetDefault("history.path", "")

	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.Normalize()
	return &configuration, nil
}

// Normalize applies report and output defaults. Search settings are left
// as given; see DefaultSearchConfig.
func (c *Configuration) Normalize() {
	c.Report.Normalize()
	if strings.TrimSpace(c.Output.CurrencySymbol) == "" {
		c.Output.CurrencySymbol = constants.DefaultCurrencySymbol
	}
}

// Validate returns an error when the configuration cannot be optimized.
func (c *Configuration) Validate() error {
	if err := c.Product.Validate(); err != nil {
		return fmt.Errorf("product: %w", err)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Product: validation.ProductInfo{
			VariableCostPerUnit: c.Product.VariableCostPerUnit,
			CurrentPrice:        c.Product.CurrentPrice,
			CompetitorAvgPrice:  c.Product.CompetitorAvgPrice,
			Elasticity:          c.Product.Elasticity,
		},
		Report: validation.ReportInfo{
			Enabled:  c.Report.Enabled,
			Provider: c.Report.Provider,
			APIKey:   c.Report.APIKey,
		},
	}
	return validator.ValidateAll()
}
