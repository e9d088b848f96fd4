package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

const generationApology = "I apologize, but I encountered an error while generating my response. Please try again."

// ComposeReply decides the text shown to the user: a pending clarification
// is returned verbatim, everything else goes through the response
// generator with a fixed apology as the failure fallback.
func ComposeReply(ctx context.Context, in *TurnState, oracle contractx.Oracle) (*TurnState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
	}

	sess := in.Session
	if sess.Clarification.Needed && sess.Clarification.Message != "" {
		sess.AgentResponse = sess.Clarification.Message
		return in, nil
	}

	reply, err := oracle.Generate(ctx, contractx.GenerateRequest{
		Intent:       sess.Intent,
		Slots:        in.Slots,
		ActionResult: sess.LastActionResult,
		Context:      sess.Context.Snapshot(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("response generation failed, using fixed apology")
		reply = generationApology
	}

	sess.AgentResponse = reply
	return in, nil
}
