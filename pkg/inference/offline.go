package inference

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
)

// OfflineInferencer answers without calling any backend. It echoes the
// prompt back so the rest of the pipeline can be exercised locally.
type OfflineInferencer struct{}

func (OfflineInferencer) Infer(ctx context.Context, _ *openai.ChatCompletionNewParams, _, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("[offline draft]\n\n")
	sb.WriteString("No generation backend is configured. The prompt that would have been sent:\n\n")
	sb.WriteString(user)
	sb.WriteString("\n")
	return sb.String(), nil
}

func (OfflineInferencer) Verify(_ context.Context, result string) (bool, error) {
	return verify(result)
}
