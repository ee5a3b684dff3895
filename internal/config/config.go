package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	Mode      string     `mapstructure:"mode"`
	StaticDir string     `mapstructure:"static_dir"`
	CORS      CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// CatalogConfig controls where the meme catalog comes from and how often it is rebuilt.
type CatalogConfig struct {
	ListingURL      string        `mapstructure:"listing_url"`
	AssetPath       string        `mapstructure:"asset_path"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
}

// LLMConfig configures the model used for meme selection. The API key is not
// configured here: callers supply it per request.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"` // gemini, openai
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	Temperature     float32       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	HistoryTurns    int           `mapstructure:"history_turns"`
	Timeout         time.Duration `mapstructure:"timeout"` // 0 means no client timeout
}

// StorageConfig configures optional publishing of the catalog asset to S3-compatible storage.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"` // r2, s3, s3compatible
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	Key       string `mapstructure:"key"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8088)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.static_dir", "./public")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("catalog.listing_url", "https://mygoapi.miyago9267.com/mygo/all_img")
	v.SetDefault("catalog.asset_path", "./public/memes.json")
	v.SetDefault("catalog.refresh_interval", "0s")
	v.SetDefault("catalog.fetch_timeout", "30s")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.5)
	v.SetDefault("llm.max_output_tokens", 20)
	v.SetDefault("llm.history_turns", 5)
	v.SetDefault("llm.timeout", "0s")
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.key", "memes.json")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.BindEnv("server.mode", "GIN_MODE")
	v.BindEnv("server.static_dir", "STATIC_DIR")
	v.BindEnv("catalog.listing_url", "MEME_LISTING_URL")
	v.BindEnv("catalog.asset_path", "MEME_ASSET_PATH")
	v.BindEnv("catalog.refresh_interval", "CATALOG_REFRESH_INTERVAL")
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("llm.base_url", "LLM_BASE_URL")
	v.BindEnv("storage.enabled", "STORAGE_ENABLED")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("metrics.enabled", "METRICS_ENABLED")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("llm: unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	if c.LLM.MaxOutputTokens <= 0 {
		return fmt.Errorf("llm: max_output_tokens must be positive")
	}
	if c.LLM.HistoryTurns < 0 {
		return fmt.Errorf("llm: history_turns must not be negative")
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("catalog: refresh_interval must not be negative")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage: bucket is required when enabled")
	}
	return nil
}
