package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// DefaultAzureAPIVersion is used when no api version is configured.
const DefaultAzureAPIVersion = "2024-06-01"

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK.
// The same client serves api.openai.com, OpenAI-compatible gateways and
// Azure OpenAI deployments.
type OpenAIInferencer struct {
	client *openai.Client
	model  string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
// The SDK's automatic retries are disabled; a failed call is reported as is.
func NewOpenAIInferencer(apiKey string, model string, opts ...option.RequestOption) *OpenAIInferencer {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(append(base, opts...)...)
	return &OpenAIInferencer{
		client: &client,
		model:  model,
	}
}

// NewAzureInferencer targets an Azure OpenAI deployment. The deployment name
// doubles as the model name in requests.
func NewAzureInferencer(endpoint, apiKey, deployment, apiVersion string, opts ...option.RequestOption) (*OpenAIInferencer, error) {
	switch {
	case apiKey == "":
		return nil, errors.New("azure openai api key missing; set AZURE_OPENAI_API_KEY")
	case endpoint == "":
		return nil, errors.New("azure openai endpoint missing; set AZURE_OPENAI_ENDPOINT")
	case deployment == "":
		return nil, errors.New("azure openai deployment missing; set AZURE_OPENAI_DEPLOYMENT")
	}
	base := []option.RequestOption{
		azure.WithEndpoint(endpoint, cmp.Or(apiVersion, DefaultAzureAPIVersion)),
		azure.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	client := openai.NewClient(append(base, opts...)...)
	return &OpenAIInferencer{
		client: &client,
		model:  deployment,
	}, nil
}

func (o *OpenAIInferencer) Model() string { return o.model }

// Infer sends text to the OpenAI chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	} else {
		cp := *params
		params = &cp
	}
	params.Model = cmp.Or(params.Model, o.model)
	params.Messages = nil
	if system != "" {
		params.Messages = append(params.Messages, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Role: "system",
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			},
		})
	}
	params.Messages = append(params.Messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Role: "user",
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: param.Opt[string]{Value: user},
			},
		},
	})

	resp, err := o.client.Chat.Completions.New(ctx, *params)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	if resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyContent
	}

	return resp.Choices[0].Message.Content, nil
}

// Verify checks that the result is non-empty.
func (o *OpenAIInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return verify(result)
}
