package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/config"
	"github.com/ziadkadry99/linkbase/internal/db"
	"github.com/ziadkadry99/linkbase/internal/embeddings"
	"github.com/ziadkadry99/linkbase/internal/extract"
	"github.com/ziadkadry99/linkbase/internal/llm"
	"github.com/ziadkadry99/linkbase/internal/rag"
	"github.com/ziadkadry99/linkbase/internal/store"
	"github.com/ziadkadry99/linkbase/internal/transcript"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `linkbase init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, cfg.OllamaURL), nil
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	}
}

// createProviderFromConfig creates the completion provider, wrapped with the
// configured rate limit.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(llm.ProviderConfig{
		Provider:  string(cfg.Provider),
		Model:     cfg.Model,
		APIKey:    os.Getenv(config.APIKeyEnvVar(cfg.Provider)),
		OllamaURL: cfg.OllamaURL,
	})
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute, time.Minute)
	}
	return provider, nil
}

// app bundles everything a command needs to run flows.
type app struct {
	cfg      *config.Config
	db       *db.DB
	docs     *store.Documents
	messages *store.Messages
	registry *rag.Registry
	bot      *bot.Router
	deps     extract.Deps
}

// buildApp wires the full application from config.
func buildApp(cfg *config.Config) (*app, error) {
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	docs := store.NewDocuments(database)
	messages := store.NewMessages(database)

	registry := rag.NewRegistry(rag.RegistryConfig{
		DataDir:       cfg.DataDir,
		EmbedFunc:     embeddings.ToChromemFunc(embedder),
		Provider:      provider,
		Documents:     docs,
		Messages:      messages,
		PreviewLength: cfg.PreviewLength,
		Manager: rag.ManagerOptions{
			HistoryLimit: cfg.HistoryLimit,
			QueryResults: cfg.QueryResults,
		},
	})

	deps := extract.Deps{Transcript: transcript.NewYouTubeClient()}
	botRouter := bot.NewRouter(registry, docs, messages, deps)

	return &app{
		cfg:      cfg,
		db:       database,
		docs:     docs,
		messages: messages,
		registry: registry,
		bot:      botRouter,
		deps:     deps,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
