package llm

import "fmt"

// ProviderConfig selects and configures a completion backend.
type ProviderConfig struct {
	Provider  string
	Model     string
	APIKey    string
	OllamaURL string
}

// NewProvider builds a Provider from configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	case "ollama":
		url := cfg.OllamaURL
		if url == "" {
			url = "http://localhost:11434"
		}
		return NewOllamaProvider(url, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
