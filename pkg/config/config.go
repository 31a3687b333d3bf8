package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Prompt    PromptConfig
	Training  TrainingConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
	Environment  string
}

type LLMConfig struct {
	DefaultProvider string
	Temperature     float32
	MaxTokens       int
	TimeoutSec      int
	OpenAI          ProviderConfig
	Anthropic       ProviderConfig
	Google          ProviderConfig
}

type ProviderConfig struct {
	APIKey string
	Model  string
}

type PromptConfig struct {
	BasePath   string
	EditorPath string
}

type TrainingConfig struct {
	CorpusPath   string
	MaxSequences int
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/compass")

	viper.SetEnvPrefix("COMPASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 10485760)
	viper.SetDefault("server.environment", "development")

	viper.SetDefault("llm.defaultProvider", "openai")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.maxTokens", 1024)
	viper.SetDefault("llm.timeoutSec", 60)
	viper.SetDefault("llm.openai.model", "gpt-4o-mini")
	viper.SetDefault("llm.anthropic.model", "claude-sonnet-4-20250514")
	viper.SetDefault("llm.google.model", "gemini-1.5-flash")

	viper.SetDefault("prompt.basePath", "./prompts/base_prompt.txt")
	viper.SetDefault("prompt.editorPath", "./prompts/editor_prompt.txt")

	viper.SetDefault("training.corpusPath", "./data/conversations.json")
	viper.SetDefault("training.maxSequences", 3)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
