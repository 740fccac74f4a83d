package config

// modelPreset describes the default models for a provider.
type modelPreset struct {
	Model          string
	EmbeddingModel string
}

var modelPresets = map[ProviderType]modelPreset{
	ProviderOpenAI: {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		OllamaURL:         "http://localhost:11434",
		DataDir:           "data",
		DatabasePath:      "data/linkbase.db",
		HistoryLimit:      10,
		QueryResults:      3,
		PreviewLength:     200,
		RequestsPerMinute: 20,
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// presetFor returns the default models for a provider, falling back to the
// OpenAI preset for unknown values.
func presetFor(provider ProviderType) modelPreset {
	if p, ok := modelPresets[provider]; ok {
		return p
	}
	return modelPresets[ProviderOpenAI]
}
