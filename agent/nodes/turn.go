// Package nodes holds the stage functions of the conversation pipeline.
// Each stage mutates the TurnState it is handed and leaves routing to the
// engine graph.
package nodes

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
}

// TurnState is the working state of one turn as it moves through the
// pipeline. Session carries everything that persists; Slots holds the raw
// values extracted this turn, not yet merged into the context.
type TurnState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.Session
	Slots   map[contractx.Slot]any
}

func ValidateTurn(in GraphInput, nowFn func() time.Time) (*TurnState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &TurnState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}

func FinalizeReply(in *TurnState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, errors.New("turn state is incomplete")
	}
	return GraphOutput{Reply: in.Session.AgentResponse}, nil
}
