package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3/option"
	"github.com/spf13/cobra"

	"storycraft/pkg/catalog"
	"storycraft/pkg/config"
	"storycraft/pkg/inference"
	"storycraft/pkg/persist"
	"storycraft/pkg/pipeline"
	"storycraft/pkg/prompt"
	"storycraft/pkg/utils"
)

// localBaseURL is used for the openai provider when neither a key nor a base
// URL is configured, e.g. LM Studio.
const localBaseURL = "http://localhost:1234/v1"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "storycraft",
		Short:         "Generate stories and poems from prompt templates",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "overrides log.level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCreateCmd(opts))
	cmd.AddCommand(newArchiveCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	cmd.AddCommand(newSchemaCmd())
	return cmd
}

// loadConfig reads configuration and applies the log level.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	log.SetLevel(level)
	return cfg, nil
}

// loadCatalog never fails; a broken resource is logged and the fallback used.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	c, err := catalog.Load(cfg.Paths.Catalog)
	if err != nil {
		log.Warn("using fallback template catalog", "error", err)
	} else {
		log.Debug("loaded template catalog", "path", cfg.Paths.Catalog, "entries", c.Len())
	}
	return c, err
}

func newPersister(cfg *config.Config) *persist.Persister {
	return persist.New(cfg.Paths.TextDir, cfg.Paths.DocumentDir, persist.NewArchive(cfg.Paths.LogFile))
}

func newPipeline(ctx context.Context, cfg *config.Config, c *catalog.Catalog) (*pipeline.Pipeline, error) {
	inf, err := buildInferencer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(prompt.NewResolver(c), inf, newPersister(cfg), cfg.LLM.Provider)
	p.Params = inference.Params{
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
	}
	p.Timeout = cfg.Generation.Timeout
	if cfg.LLM.Provider != "offline" {
		p.Tokens = utils.NumTokens
	}
	return p, nil
}

func buildInferencer(ctx context.Context, cfg *config.Config) (inference.Inferencer, error) {
	switch cfg.LLM.Provider {
	case "azure":
		return inference.NewAzureInferencer(cfg.Azure.Endpoint, cfg.Azure.APIKey, cfg.Azure.Deployment, cfg.Azure.APIVersion)
	case "openai":
		var opts []option.RequestOption
		baseURL := cfg.OpenAI.BaseURL
		if baseURL == "" && cfg.OpenAI.APIKey == "" {
			baseURL = localBaseURL
		}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		return inference.NewOpenAIInferencer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, opts...), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini api key missing; set GEMINI_API_KEY")
		}
		return inference.NewGeminiInferencer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "offline":
		return inference.OfflineInferencer{}, nil
	}
	if hosted, ok := cfg.Hosted(cfg.LLM.Provider); ok {
		return inference.NewHostedInferencer(cfg.LLM.Provider, hosted.APIKey, hosted.Model)
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
}
