package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/ecoprice/pkg/constants"
)

// ReportConfig configures the narrative report provider. The API key lives
// here and is handed to the provider constructor; nothing stores it globally.
type ReportConfig struct {
	Enabled        bool     `yaml:"enabled,omitempty" mapstructure:"enabled" json:"enabled,omitempty"`
	Provider       string   `yaml:"provider,omitempty" mapstructure:"provider" json:"provider,omitempty"`
	APIKey         string   `yaml:"apiKey,omitempty" mapstructure:"apiKey" json:"-"`
	Model          string   `yaml:"model,omitempty" mapstructure:"model" json:"model,omitempty"`
	BaseURL        string   `yaml:"baseURL,omitempty" mapstructure:"baseURL" json:"baseURL,omitempty"`
	MaxTokens      int      `yaml:"maxTokens,omitempty" mapstructure:"maxTokens" json:"maxTokens,omitempty"`
	Temperature    *float64 `yaml:"temperature,omitempty" mapstructure:"temperature" json:"temperature,omitempty"`
	TimeoutSeconds int      `yaml:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds" json:"timeoutSeconds,omitempty"`
}

// CanonicalReportProvider returns the canonical identifier for a provider name.
func CanonicalReportProvider(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.ReportProviderOpenAI
	}
	switch strings.ToLower(trimmed) {
	case "openai", "open-ai", "chatgpt":
		return constants.ReportProviderOpenAI
	case "gemini", "google":
		return constants.ReportProviderGemini
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (r *ReportConfig) Normalize() {
	if r == nil {
		return
	}
	r.Provider = CanonicalReportProvider(r.Provider)
	r.APIKey = strings.TrimSpace(r.APIKey)

	if strings.TrimSpace(r.Model) == "" {
		switch r.Provider {
		case constants.ReportProviderGemini:
			r.Model = constants.DefaultGeminiModel
		default:
			r.Model = constants.DefaultReportModel
		}
	}
	if r.Provider == constants.ReportProviderOpenAI && strings.TrimSpace(r.BaseURL) == "" {
		r.BaseURL = constants.DefaultReportBaseURL
	}
	r.BaseURL = strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	if r.MaxTokens <= 0 {
		r.MaxTokens = constants.DefaultReportMaxTokens
	}
	if r.Temperature == nil {
		temperature := constants.DefaultReportTemperature
		r.Temperature = &temperature
	}
	if r.TimeoutSeconds <= 0 {
		r.TimeoutSeconds = constants.DefaultReportTimeoutSeconds
	}
}

// Validate returns an error when the report configuration is unsupported.
func (r *ReportConfig) Validate() error {
	if r == nil {
		return fmt.Errorf("report configuration cannot be nil")
	}

	r.Normalize()

	switch r.Provider {
	case constants.ReportProviderOpenAI, constants.ReportProviderGemini:
		// supported providers
	default:
		return fmt.Errorf("report provider %q is not supported", r.Provider)
	}
	if temperature := r.TemperatureValue(); temperature < 0 || temperature > 2 {
		return fmt.Errorf("report temperature %.2f must be between 0 and 2", temperature)
	}

	return nil
}

// TemperatureValue returns the sampling temperature. An unset temperature
// uses the default; an explicit 0 is kept.
func (r ReportConfig) TemperatureValue() float64 {
	if r.Temperature == nil {
		return constants.DefaultReportTemperature
	}
	return *r.Temperature
}

// Timeout returns the per-request timeout for report generation.
func (r ReportConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return time.Duration(constants.DefaultReportTimeoutSeconds) * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}
