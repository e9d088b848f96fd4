package engine

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	nodex "github.com/thehungryunicorn/booking-agent/agent/nodes"
)

// compileTurnGraph wires the four pipeline stages:
//
//	validate -> load_state -> classify_intent -> process_parameters
//	  -> (execute_action | compose_reply) -> compose_reply
//	  -> append_and_save -> finalize
//
// The branch after process_parameters is the clarify/execute router: a
// pending clarification or a non-actionable intent skips the backend call.
func (e *Engine) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.TurnState, error) {
			return nodex.ValidateTurn(in, e.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("load_state",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.LoadState(ctx, in, e.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_state: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ClassifyIntent(ctx, in, e.oracle)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("process_parameters",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ProcessParameters(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node process_parameters: %w", err)
	}

	if err := graph.AddLambdaNode("execute_action",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ExecuteAction(ctx, in, e.dispatcher)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_action: %w", err)
	}

	if err := graph.AddLambdaNode("compose_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ComposeReply(ctx, in, e.oracle)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_reply: %w", err)
	}

	if err := graph.AddLambdaNode("append_and_save",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.AppendAndSave(ctx, in, e.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_and_save: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.TurnState) (string, error) {
			if in == nil || in.Session == nil {
				return "", fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
			}
			if in.Session.Clarification.Needed || !in.Session.Intent.Actionable() {
				return "compose_reply", nil
			}
			return "execute_action", nil
		},
		map[string]bool{
			"execute_action": true,
			"compose_reply":  true,
		},
	)
	if err := graph.AddBranch("process_parameters", branch); err != nil {
		return nil, fmt.Errorf("add clarify/execute branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"validate_turn", "load_state"},
		{"load_state", "classify_intent"},
		{"classify_intent", "process_parameters"},
		{"execute_action", "compose_reply"},
		{"compose_reply", "append_and_save"},
		{"append_and_save", "finalize_reply"},
		{"finalize_reply", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("engine.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
