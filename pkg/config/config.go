// Package config merges defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	LLM        LLMConfig        `mapstructure:"llm"`
	Azure      AzureConfig      `mapstructure:"azure"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Grok       HostedConfig     `mapstructure:"grok"`
	Moonshot   HostedConfig     `mapstructure:"moonshot"`
	Kimi       HostedConfig     `mapstructure:"kimi"`
	Generation GenerationConfig `mapstructure:"generation"`
	Paths      PathsConfig      `mapstructure:"paths"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

type LLMConfig struct {
	// azure, openai, gemini, grok, moonshot, kimi or offline
	Provider string `mapstructure:"provider"`
}

type AzureConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// HostedConfig selects a key and optional model for an OpenAI-compatible host.
type HostedConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Hosted returns the settings for a hosted provider name.
func (c *Config) Hosted(name string) (HostedConfig, bool) {
	switch name {
	case "grok":
		return c.Grok, true
	case "moonshot":
		return c.Moonshot, true
	case "kimi":
		return c.Kimi, true
	}
	return HostedConfig{}, false
}

type GenerationConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int64         `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

type PathsConfig struct {
	Catalog     string `mapstructure:"catalog"`
	TextDir     string `mapstructure:"text_dir"`
	DocumentDir string `mapstructure:"document_dir"`
	LogFile     string `mapstructure:"log_file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var envBindings = map[string]string{
	"llm.provider":           "STORYCRAFT_PROVIDER",
	"azure.api_key":          "AZURE_OPENAI_API_KEY",
	"azure.endpoint":         "AZURE_OPENAI_ENDPOINT",
	"azure.deployment":       "AZURE_OPENAI_DEPLOYMENT",
	"azure.api_version":      "AZURE_OPENAI_API_VERSION",
	"openai.api_key":         "OPENAI_API_KEY",
	"openai.model":           "OPENAI_MODEL",
	"openai.base_url":        "OPENAI_BASE_URL",
	"gemini.api_key":         "GEMINI_API_KEY",
	"gemini.model":           "GEMINI_MODEL",
	"grok.api_key":           "GROK_API_KEY",
	"grok.model":             "GROK_MODEL",
	"moonshot.api_key":       "MOONSHOT_API_KEY",
	"moonshot.model":         "MOONSHOT_MODEL",
	"kimi.api_key":           "KIMI_API_KEY",
	"kimi.model":             "KIMI_MODEL",
	"generation.timeout":     "STORYCRAFT_TIMEOUT",
	"generation.max_tokens":  "STORYCRAFT_MAX_TOKENS",
	"generation.temperature": "STORYCRAFT_TEMPERATURE",
	"paths.catalog":          "STORYCRAFT_CATALOG",
	"server.addr":            "PORT",
	"log.level":              "LOG_LEVEL",
}

// Load reads the optional YAML file at path, then applies the environment.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.Addr = normalizeAddr(cfg.Server.Addr)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return &cfg, nil
}

// normalizeAddr accepts a bare port, as PORT usually is.
func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "azure")

	v.SetDefault("azure.api_version", "2024-06-01")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("generation.timeout", "60s")
	v.SetDefault("generation.max_tokens", 2048)
	v.SetDefault("generation.temperature", 0.8)

	v.SetDefault("paths.catalog", "prompts/story_prompts.json")
	v.SetDefault("paths.text_dir", "outputs/generated_text")
	v.SetDefault("paths.document_dir", "outputs/generated_pdf")
	v.SetDefault("paths.log_file", "logs/creations.log")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
}
