package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .linkbase.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to linkbase! Let's configure your instance.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := presetFor(provider)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (per-user indexes and database)",
		Default: "data",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Server address.
	addrPrompt := promptui.Prompt{
		Label:   "HTTP listen address",
		Default: ":8080",
	}
	addr, err := addrPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("listen address: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = preset.Model
	cfg.EmbeddingProvider = provider
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.DataDir = dataDir
	cfg.DatabasePath = dataDir + "/linkbase.db"
	cfg.Server.Addr = addr

	// Check for API key.
	if envVar := APIKeyEnvVar(provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running linkbase serve.\n", envVar)
		}
	}

	configPath := ".linkbase.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
