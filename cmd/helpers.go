package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/contentloop/contentloop/internal/analytics"
	"github.com/contentloop/contentloop/internal/audit"
	"github.com/contentloop/contentloop/internal/config"
	"github.com/contentloop/contentloop/internal/db"
	"github.com/contentloop/contentloop/internal/embeddings"
	"github.com/contentloop/contentloop/internal/retrieval"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// app bundles the wired application components shared by commands.
type app struct {
	cfg       *config.Config
	store     vectordb.Store
	cache     *embeddings.CachingEmbedder
	retriever *retrieval.System
	analyzer  *analytics.System
	auditor   *audit.Store
	database  *db.DB
}

func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `contentloop init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// buildApp wires the store, retrieval, analytics, and audit components from
// config. Every command that touches data goes through this.
func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	cache := embeddings.NewCachingEmbedder(embedder)

	store, err := vectordb.NewChromemStore(filepath.Join(cfg.DataDir, "vectordb"), cache)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "contentloop.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	auditor := audit.NewStore(database)

	retriever := retrieval.New(store, cache)
	retriever.SetDuplicateThreshold(cfg.Retrieval.DuplicateThreshold)
	retriever.SetMinStyleScore(cfg.Retrieval.MinStyleScore)

	analyzer := analytics.New(store, auditor)
	analyzer.SetPromotionThreshold(cfg.Analytics.PromotionThreshold)

	return &app{
		cfg:       cfg,
		store:     store,
		cache:     cache,
		retriever: retriever,
		analyzer:  analyzer,
		auditor:   auditor,
		database:  database,
	}, nil
}
