package report

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/pkg/constants"
)

// Provider turns a prompt into free text using an external language model.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, prompt string) (string, error)
	Name() string
}

// NewProvider builds the provider selected by cfg. The API key is taken from
// cfg and kept on the provider instance only.
func NewProvider(cfg config.ReportConfig, client *http.Client) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case constants.ReportProviderOpenAI:
		return NewChatProvider(cfg, client), nil
	case constants.ReportProviderGemini:
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("report provider %q is not supported", cfg.Provider)
	}
}
