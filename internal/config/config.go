package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metadata  MetadataConfig  `mapstructure:"metadata"`
	Intent    IntentConfig    `mapstructure:"intent"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// MetadataConfig holds the external catalog and availability provider settings.
type MetadataConfig struct {
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	Watchmode WatchmodeConfig `mapstructure:"watchmode"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// WatchmodeConfig holds Watchmode API configuration.
type WatchmodeConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
	Region  string `mapstructure:"region"`
}

// IntentConfig holds settings for the optional LLM intent extractor.
type IntentConfig struct {
	LLM LLMConfig `mapstructure:"llm"`
}

// LLMConfig configures an OpenAI-compatible chat completion endpoint.
// The extractor is disabled when APIKey is empty.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// RecommendConfig holds the fixed budgets and weights of the recommendation pipeline.
type RecommendConfig struct {
	TrailerBudget      int           `mapstructure:"trailer_budget"`
	AvailabilityBudget int           `mapstructure:"availability_budget"`
	AvailabilityDelay  time.Duration `mapstructure:"availability_delay"`
	SimilarityBonus    float64       `mapstructure:"similarity_bonus"`
	IncludeSeed        bool          `mapstructure:"include_seed"`
	PrefetchPages      int           `mapstructure:"prefetch_pages"`
	DefaultPageSize    int           `mapstructure:"default_page_size"`
	MaxPageSize        int           `mapstructure:"max_page_size"`
}

// CacheConfig selects the backend of the enrichment memo caches.
type CacheConfig struct {
	Backend     string `mapstructure:"backend"` // "memory" or "redis"
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metadata: MetadataConfig{
			TMDB: TMDBConfig{
				APIKey:       EmbeddedTMDBKey,
				BaseURL:      "https://api.themoviedb.org/3",
				ImageBaseURL: "https://image.tmdb.org/t/p",
				Timeout:      30,
			},
			Watchmode: WatchmodeConfig{
				APIKey:  EmbeddedWatchmodeKey,
				BaseURL: "https://api.watchmode.com/v1",
				Timeout: 30,
				Region:  "US",
			},
		},
		Intent: IntentConfig{
			LLM: LLMConfig{
				BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
				Model:   "gemini-2.0-flash",
				Timeout: 30,
			},
		},
		Recommend: RecommendConfig{
			TrailerBudget:      4,
			AvailabilityBudget: 5,
			AvailabilityDelay:  100 * time.Millisecond,
			SimilarityBonus:    0.06,
			IncludeSeed:        true,
			PrefetchPages:      2,
			DefaultPageSize:    10,
			MaxPageSize:        30,
		},
		Cache: CacheConfig{
			Backend:     "memory",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "moviechat:",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.moviechat")
	}

	v.SetEnvPrefix("MOVIECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain provider variable names, as used in .env files.
	_ = v.BindEnv("metadata.tmdb.api_key", "MOVIECHAT_METADATA_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("metadata.watchmode.api_key", "MOVIECHAT_METADATA_WATCHMODE_API_KEY", "WATCHMODE_API_KEY")
	_ = v.BindEnv("metadata.watchmode.region", "MOVIECHAT_METADATA_WATCHMODE_REGION", "DEFAULT_REGION")
	_ = v.BindEnv("intent.llm.api_key", "MOVIECHAT_INTENT_LLM_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("metadata.tmdb.api_key", d.Metadata.TMDB.APIKey)
	v.SetDefault("metadata.tmdb.base_url", d.Metadata.TMDB.BaseURL)
	v.SetDefault("metadata.tmdb.image_base_url", d.Metadata.TMDB.ImageBaseURL)
	v.SetDefault("metadata.tmdb.timeout", d.Metadata.TMDB.Timeout)

	v.SetDefault("metadata.watchmode.api_key", d.Metadata.Watchmode.APIKey)
	v.SetDefault("metadata.watchmode.base_url", d.Metadata.Watchmode.BaseURL)
	v.SetDefault("metadata.watchmode.timeout", d.Metadata.Watchmode.Timeout)
	v.SetDefault("metadata.watchmode.region", d.Metadata.Watchmode.Region)

	v.SetDefault("intent.llm.api_key", "")
	v.SetDefault("intent.llm.base_url", d.Intent.LLM.BaseURL)
	v.SetDefault("intent.llm.model", d.Intent.LLM.Model)
	v.SetDefault("intent.llm.timeout", d.Intent.LLM.Timeout)

	v.SetDefault("recommend.trailer_budget", d.Recommend.TrailerBudget)
	v.SetDefault("recommend.availability_budget", d.Recommend.AvailabilityBudget)
	v.SetDefault("recommend.availability_delay", d.Recommend.AvailabilityDelay)
	v.SetDefault("recommend.similarity_bonus", d.Recommend.SimilarityBonus)
	v.SetDefault("recommend.include_seed", d.Recommend.IncludeSeed)
	v.SetDefault("recommend.prefetch_pages", d.Recommend.PrefetchPages)
	v.SetDefault("recommend.default_page_size", d.Recommend.DefaultPageSize)
	v.SetDefault("recommend.max_page_size", d.Recommend.MaxPageSize)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_prefix", d.Cache.RedisPrefix)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
