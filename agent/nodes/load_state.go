package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

// LoadState fetches the session (or creates a fresh one) and resets its
// transient fields for the new turn. History and booking context survive.
func LoadState(ctx context.Context, in *TurnState, store statex.Store) (*TurnState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: turn state is nil", contractx.ErrValidation)
	}

	sess, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		sess = statex.NewSession(in.SessionID, in.Now)
	}

	sess.BeginTurn(in.Text, in.Now)
	in.Session = sess
	return in, nil
}
