package config

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level contentloop configuration, corresponding to
// .contentloop.yml.
type Config struct {
	EmbeddingProvider ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string          `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaURL         string          `yaml:"ollama_url" koanf:"ollama_url"`
	DataDir           string          `yaml:"data_dir" koanf:"data_dir"`
	Server            ServerConfig    `yaml:"server" koanf:"server"`
	Retrieval         RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	Analytics         AnalyticsConfig `yaml:"analytics" koanf:"analytics"`
	Ingest            IngestConfig    `yaml:"ingest" koanf:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RetrievalConfig holds retrieval tuning knobs.
type RetrievalConfig struct {
	DuplicateThreshold float64 `yaml:"duplicate_threshold" koanf:"duplicate_threshold"`
	MinStyleScore      float64 `yaml:"min_style_score" koanf:"min_style_score"`
}

// AnalyticsConfig holds the promotion feedback-loop settings.
type AnalyticsConfig struct {
	PromotionThreshold float64 `yaml:"promotion_threshold" koanf:"promotion_threshold"`
}

// IngestConfig holds defaults for knowledge ingestion runs.
type IngestConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}
