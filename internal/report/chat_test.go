package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/ecoprice/internal/config"
)

func TestChatProviderGenerate(t *testing.T) {
	var received chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Raise the price.  "}}]}`))
	}))
	defer server.Close()

	provider := NewChatProvider(config.ReportConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1/",
	}, server.Client())

	text, err := provider.Generate(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Raise the price." {
		t.Fatalf("unexpected text %q", text)
	}
	if received.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", received.Model)
	}
	if received.MaxTokens != 450 {
		t.Fatalf("expected max tokens 450, got %d", received.MaxTokens)
	}
	if received.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", received.Temperature)
	}
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" || received.Messages[1].Content != "user text" {
		t.Fatalf("unexpected messages %+v", received.Messages)
	}
	if provider.Name() != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected provider name %q", provider.Name())
	}
}

func TestChatProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{name: "api error message", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"auth"}}`, contains: "bad key"},
		{name: "plain server error", status: http.StatusBadGateway, body: `upstream down`, contains: "status 502"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, contains: "no choices"},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, contains: "empty report"},
		{name: "malformed json", status: http.StatusOK, body: `{"choices":`, contains: "decode chat response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewChatProvider(config.ReportConfig{APIKey: "k", BaseURL: server.URL}, server.Client())
			_, err := provider.Generate(context.Background(), "", "prompt")
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestChatProviderMissingKey(t *testing.T) {
	provider := NewChatProvider(config.ReportConfig{}, nil)
	_, err := provider.Generate(context.Background(), "", "prompt")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestChatProviderHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	provider := NewChatProvider(config.ReportConfig{APIKey: "k", BaseURL: server.URL}, server.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := provider.Generate(ctx, "", "prompt"); err == nil {
		t.Fatal("expected error when context expires")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ReportConfig
		wantName string
		wantErr  bool
	}{
		{name: "openai", cfg: config.ReportConfig{Provider: "openai"}, wantName: "openai/gpt-4o-mini"},
		{name: "gemini", cfg: config.ReportConfig{Provider: "gemini"}, wantName: "gemini/gemini-2.0-flash"},
		{name: "gemini custom model", cfg: config.ReportConfig{Provider: "gemini", Model: "gemini-2.5-pro"}, wantName: "gemini/gemini-2.5-pro"},
		{name: "unsupported", cfg: config.ReportConfig{Provider: "fax"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Fatalf("expected %q, got %q", tt.wantName, provider.Name())
			}
		})
	}
}

func TestChatProviderZeroTemperature(t *testing.T) {
	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hold the price."}}]}`))
	}))
	defer server.Close()

	zero := 0.0
	provider := NewChatProvider(config.ReportConfig{APIKey: "k", BaseURL: server.URL, Temperature: &zero}, server.Client())
	if _, err := provider.Generate(context.Background(), "", "prompt"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, ok := raw["temperature"].(float64)
	if !ok || got != 0 {
		t.Fatalf("expected temperature 0 in request, got %v", raw["temperature"])
	}
}

func TestGeminiProviderMissingKey(t *testing.T) {
	provider := NewGeminiProvider(config.ReportConfig{Provider: "gemini"})
	_, err := provider.Generate(context.Background(), "", "prompt")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
