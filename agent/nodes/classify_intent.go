package nodes

import (
	"context"
	"fmt"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

// classifyWindowSize bounds the conversation window sent to the oracle.
const classifyWindowSize = 4

// ClassifyIntent asks the oracle for the turn's intent and raw slots. The
// intent is recomputed every turn, never merged. A clarification requested
// by the oracle (including its fallback path) is installed here and will
// short-circuit execution later in the turn.
func ClassifyIntent(ctx context.Context, in *TurnState, oracle contractx.Oracle) (*TurnState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
	}

	res := oracle.Classify(ctx, contractx.ClassifyRequest{
		Window:  in.Session.Window(classifyWindowSize),
		Message: in.Text,
		Context: in.Session.Context.Snapshot(),
	})

	in.Session.Intent = res.Intent
	in.Slots = res.Slots
	if res.NeedsClarification && res.ClarificationMessage != "" {
		in.Session.Clarification = contractx.Clarification{
			Needed:  true,
			Message: res.ClarificationMessage,
		}
	}
	return in, nil
}
