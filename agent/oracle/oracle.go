// Package oracle adapts an LLM into the contract.Oracle capability: a
// fallible text classifier and a free-text response generator.
package oracle

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	promptx "github.com/thehungryunicorn/booking-agent/agent/prompt"
	openrouterx "github.com/thehungryunicorn/booking-agent/pkg/openrouter"
)

// LLM implements contract.Oracle on top of OpenRouter. The struct is
// effectively immutable after construction and safe to share across
// concurrent sessions.
type LLM struct {
	classifier     einomodel.BaseChatModel
	responder      *openaisdk.Client
	responderModel string
	prompts        promptx.Set
}

var _ contractx.Oracle = (*LLM)(nil)

func New(ctx context.Context, cfg Config) (*LLM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadSet()
	if prompts.Classifier == "" || prompts.Responder == "" {
		return nil, contractx.ErrPromptMissing
	}

	classifierCfg := cfg.OpenRouterFor(RoleClassifier)
	classifier, err := classifierCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create classifier model: %v", contractx.ErrModelInvoke, err)
	}

	responderCfg := cfg.OpenRouterFor(RoleResponder)
	responder := openrouterx.NewClient(responderCfg)
	if responder == nil {
		return nil, fmt.Errorf("%w: create responder client", contractx.ErrModelInvoke)
	}

	return &LLM{
		classifier:     classifier,
		responder:      responder,
		responderModel: strings.TrimSpace(responderCfg.Model),
		prompts:        prompts,
	}, nil
}

// newWithModel is the test seam: it skips remote client construction.
func newWithModel(classifier einomodel.BaseChatModel, prompts promptx.Set) *LLM {
	return &LLM{classifier: classifier, prompts: prompts}
}
