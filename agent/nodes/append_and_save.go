package nodes

import (
	"context"
	"fmt"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

// AppendAndSave records the (user, agent) exchange in the history and
// persists the session for the next turn.
func AppendAndSave(ctx context.Context, in *TurnState, store statex.Store) (*TurnState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
	}

	sess := in.Session
	sess.AddTurn(contractx.RoleUser, in.Text)
	sess.AddTurn(contractx.RoleAgent, sess.AgentResponse)

	if err := store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return in, nil
}
