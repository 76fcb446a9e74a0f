package inference

import (
	"cmp"
	"fmt"

	"github.com/openai/openai-go/v3/option"
)

// Hosted describes an OpenAI-compatible service reachable with the OpenAI SDK.
type Hosted struct {
	BaseURL string
	Model   string
	KeyEnv  string
}

// HostedProviders are selectable by name in llm.provider.
var HostedProviders = map[string]Hosted{
	"grok":     {BaseURL: "https://api.x.ai/v1", Model: "grok-4-fast-reasoning", KeyEnv: "GROK_API_KEY"},
	"moonshot": {BaseURL: "https://api.moonshot.ai/v1", Model: "kimi-k2-5", KeyEnv: "MOONSHOT_API_KEY"},
	"kimi":     {BaseURL: "https://api.kimi.com/coding/v1", Model: "kimi-for-coding", KeyEnv: "KIMI_API_KEY"},
}

// NewHostedInferencer builds an OpenAIInferencer for a named hosted provider.
// An empty model selects the provider default.
func NewHostedInferencer(name, apiKey, model string, opts ...option.RequestOption) (*OpenAIInferencer, error) {
	h, ok := HostedProviders[name]
	if !ok {
		return nil, fmt.Errorf("unknown hosted provider %q", name)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key missing; set %s", name, h.KeyEnv)
	}
	base := []option.RequestOption{option.WithBaseURL(h.BaseURL)}
	return NewOpenAIInferencer(apiKey, cmp.Or(model, h.Model), append(base, opts...)...), nil
}
