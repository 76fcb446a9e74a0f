package inference

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
)

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}

var (
	ErrNoChoices    = errors.New("no choices returned")
	ErrEmptyContent = errors.New("empty completion content")
)

// Params are the per-call generation knobs shared by every backend.
type Params struct {
	MaxTokens   int64
	Temperature float64
}

// ChatParams converts p into the request shape Infer accepts. Zero values
// leave the backend default in place.
func (p Params) ChatParams() *openai.ChatCompletionNewParams {
	params := new(openai.ChatCompletionNewParams)
	if p.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(p.MaxTokens)
	}
	if p.Temperature > 0 {
		params.Temperature = openai.Float(p.Temperature)
	}
	return params
}

func verify(result string) (bool, error) {
	if strings.TrimSpace(result) == "" {
		return false, ErrEmptyContent
	}
	return true, nil
}
