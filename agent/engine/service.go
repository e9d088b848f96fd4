// Package engine owns the per-turn conversation state machine: it compiles
// the stage pipeline into a graph and drives one turn at a time per session.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	bookingx "github.com/thehungryunicorn/booking-agent/agent/booking"
	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	nodex "github.com/thehungryunicorn/booking-agent/agent/nodes"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Engine struct {
	store      statex.Store
	oracle     contractx.Oracle
	dispatcher *bookingx.Dispatcher

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time

	// One in-flight turn per session: concurrent callers on the same
	// session would break the merge-then-validate ordering.
	mu        sync.Mutex
	turnLocks map[string]*sync.Mutex
}

func New(store statex.Store, oracle contractx.Oracle, dispatcher *bookingx.Dispatcher) (*Engine, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if dispatcher == nil {
		return nil, errors.New("booking dispatcher is required")
	}

	e := &Engine{
		store:      store,
		oracle:     oracle,
		dispatcher: dispatcher,
		now:        time.Now,
		turnLocks:  make(map[string]*sync.Mutex),
	}

	graphRunner, err := e.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// HandleTurn processes one user message for a session and returns the text
// to display. Turns of the same session are serialized; distinct sessions
// proceed concurrently.
func (e *Engine) HandleTurn(ctx context.Context, sessionID string, text string) (string, error) {
	lock := e.sessionLock(strings.TrimSpace(sessionID))
	lock.Lock()
	defer lock.Unlock()

	out, err := e.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.turnLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.turnLocks[sessionID] = lock
	}
	return lock
}
