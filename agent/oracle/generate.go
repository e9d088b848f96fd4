package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

// Generate asks the responder model for the natural-language reply. Errors
// propagate so the composer can substitute its fixed apology.
func (o *LLM) Generate(ctx context.Context, req contractx.GenerateRequest) (string, error) {
	if o.responder == nil {
		return "", fmt.Errorf("%w: responder client not configured", contractx.ErrModelInvoke)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal generation payload: %v", contractx.ErrValidation, err)
	}

	completion, err := o.responder.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(o.responderModel),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(o.prompts.Responder),
			openaisdk.UserMessage(string(payload)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: response generation: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", contractx.ErrSchemaViolation)
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: blank reply", contractx.ErrSchemaViolation)
	}
	return reply, nil
}
