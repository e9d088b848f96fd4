package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	bookingx "github.com/thehungryunicorn/booking-agent/agent/booking"
	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

// ExecuteAction performs the single backend call for the turn's intent.
// The engine only routes here when no clarification is pending and the
// intent is actionable; the dispatcher may still discover a clarification
// condition of its own (modify with nothing to change). Backend failures
// are data in the action result, never an error.
func ExecuteAction(ctx context.Context, in *TurnState, dispatcher *bookingx.Dispatcher) (*TurnState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
	}

	sess := in.Session
	result, clarification := dispatcher.Execute(ctx, sess.Intent, &sess.Context)
	if clarification.Needed {
		sess.Clarification = clarification
		return in, nil
	}

	sess.LastActionResult = result
	if result != nil {
		log.Debug().Str("intent", string(sess.Intent)).Int("status", result.Status).Msg("executed booking action")
	}
	return in, nil
}
