package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level linkbase configuration, corresponding to
// .linkbase.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaURL         string       `yaml:"ollama_url" koanf:"ollama_url"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	DatabasePath      string       `yaml:"database_path" koanf:"database_path"`
	HistoryLimit      int          `yaml:"history_limit" koanf:"history_limit"`
	QueryResults      int          `yaml:"query_results" koanf:"query_results"`
	PreviewLength     int          `yaml:"preview_length" koanf:"preview_length"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr" koanf:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}
