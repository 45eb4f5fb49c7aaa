package config

// defaultEmbeddingModels maps each provider to its recommended model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultIngestExcludes are glob patterns excluded from ingestion by default.
var DefaultIngestExcludes = []string{
	"README.md",
	"CHANGELOG.md",
	"LICENSE*",
	"node_modules/**",
	".git/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    defaultEmbeddingModels[ProviderOpenAI],
		OllamaURL:         "http://localhost:11434",
		DataDir:           ".contentloop",
		Server: ServerConfig{
			Port: 8710,
		},
		Retrieval: RetrievalConfig{
			DuplicateThreshold: 0.95,
			MinStyleScore:      0.7,
		},
		Analytics: AnalyticsConfig{
			PromotionThreshold: 0.8,
		},
		Ingest: IngestConfig{
			Dir:     "knowledge",
			Exclude: DefaultIngestExcludes,
		},
	}
}

// DefaultEmbeddingModel returns the recommended model for a provider.
func DefaultEmbeddingModel(provider ProviderType) string {
	if model, ok := defaultEmbeddingModels[provider]; ok {
		return model
	}
	return defaultEmbeddingModels[ProviderOpenAI]
}
