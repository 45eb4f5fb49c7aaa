package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .contentloop.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to contentloop! Let's configure your content store.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider selection.
	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(providerStr)

	// 2. Embedding model.
	modelPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: DefaultEmbeddingModel(cfg.EmbeddingProvider),
	}
	cfg.EmbeddingModel, err = modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	if cfg.EmbeddingProvider == ProviderOllama {
		urlPrompt := promptui.Prompt{
			Label:   "Ollama URL",
			Default: cfg.OllamaURL,
		}
		cfg.OllamaURL, err = urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("ollama url: %w", err)
		}
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the vector store and audit ledger",
		Default: cfg.DataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "API server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Knowledge directory for ingestion.
	ingestPrompt := promptui.Prompt{
		Label:   "Knowledge directory to ingest from",
		Default: cfg.Ingest.Dir,
	}
	cfg.Ingest.Dir, err = ingestPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ingest dir: %w", err)
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.EmbeddingProvider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running contentloop serve.\n", envVar)
		}
	}

	// Save to .contentloop.yml.
	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
