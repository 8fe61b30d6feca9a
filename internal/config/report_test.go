package config

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/ecoprice/pkg/constants"
)

func TestCanonicalReportProvider(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty defaults to openai", input: "", expected: constants.ReportProviderOpenAI},
		{name: "openai casing", input: "OpenAI", expected: constants.ReportProviderOpenAI},
		{name: "openai dashed", input: "open-ai", expected: constants.ReportProviderOpenAI},
		{name: "gemini", input: " GEMINI ", expected: constants.ReportProviderGemini},
		{name: "google alias", input: "google", expected: constants.ReportProviderGemini},
		{name: "unknown lowered", input: "Custom", expected: "custom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := CanonicalReportProvider(tc.input)
			if actual != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, actual)
			}
		})
	}
}

func TestReportConfigNormalizeDefaults(t *testing.T) {
	testCases := []struct {
		name      string
		provider  string
		wantModel string
		wantBase  string
	}{
		{name: "openai defaults", provider: "", wantModel: constants.DefaultReportModel, wantBase: constants.DefaultReportBaseURL},
		{name: "gemini defaults", provider: "gemini", wantModel: constants.DefaultGeminiModel, wantBase: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &ReportConfig{Provider: tc.provider, APIKey: "  key  "}
			cfg.Normalize()

			if cfg.Model != tc.wantModel {
				t.Fatalf("expected model %q, got %q", tc.wantModel, cfg.Model)
			}
			if cfg.BaseURL != tc.wantBase {
				t.Fatalf("expected base URL %q, got %q", tc.wantBase, cfg.BaseURL)
			}
			if cfg.APIKey != "key" {
				t.Fatalf("expected trimmed API key, got %q", cfg.APIKey)
			}
			if cfg.MaxTokens != constants.DefaultReportMaxTokens {
				t.Fatalf("expected default max tokens, got %d", cfg.MaxTokens)
			}
			if cfg.Temperature == nil || *cfg.Temperature != constants.DefaultReportTemperature {
				t.Fatalf("expected default temperature, got %v", cfg.Temperature)
			}
		})
	}
}

func temperature(v float64) *float64 {
	return &v
}

func TestReportConfigTemperature(t *testing.T) {
	testCases := []struct {
		name string
		cfg  ReportConfig
		want float64
	}{
		{name: "unset uses default", cfg: ReportConfig{}, want: constants.DefaultReportTemperature},
		{name: "explicit zero kept", cfg: ReportConfig{Temperature: temperature(0)}, want: 0},
		{name: "explicit value kept", cfg: ReportConfig{Temperature: temperature(1.1)}, want: 1.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.TemperatureValue(); got != tc.want {
				t.Fatalf("TemperatureValue() = %v, want %v", got, tc.want)
			}
			cfg := tc.cfg
			cfg.Normalize()
			if got := cfg.TemperatureValue(); got != tc.want {
				t.Fatalf("after Normalize TemperatureValue() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoadConfigurationZeroTemperature(t *testing.T) {
	yamlData := `
product:
  currentPrice: 45
  currentVolume: 500
report:
  temperature: 0
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Report.Temperature == nil || *config.Report.Temperature != 0 {
		t.Fatalf("expected explicit zero temperature, got %v", config.Report.Temperature)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestReportConfigNormalizeTrimsBaseURL(t *testing.T) {
	cfg := &ReportConfig{BaseURL: "http://localhost:9000/v1/"}
	cfg.Normalize()
	if cfg.BaseURL != "http://localhost:9000/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
}

func TestReportConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     ReportConfig
		wantErr bool
	}{
		{name: "defaults", cfg: ReportConfig{}},
		{name: "gemini", cfg: ReportConfig{Provider: "gemini"}},
		{name: "unsupported provider", cfg: ReportConfig{Provider: "telegraph"}, wantErr: true},
		{name: "zero temperature", cfg: ReportConfig{Temperature: temperature(0)}},
		{name: "temperature too high", cfg: ReportConfig{Temperature: temperature(3)}, wantErr: true},
		{name: "negative temperature", cfg: ReportConfig{Temperature: temperature(-0.1)}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestReportConfigTimeout(t *testing.T) {
	if got := (ReportConfig{}).Timeout(); got != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", got)
	}
	if got := (ReportConfig{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", got)
	}
}
