package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	normalizex "github.com/thehungryunicorn/booking-agent/agent/normalize"
)

const fallbackApology = "I'm sorry, I had trouble understanding that. Could you please rephrase your request?"

// Keywords that signal the user is explicitly switching to another
// operation, so a non-empty booking context must not pull the turn back
// into make_booking.
var operationSwitchKeywords = []string{
	"cancel", "check my booking", "modify", "change",
	"available", "availability", "check availability", "what times",
}

type rawClassifyResponse struct {
	Intent               string         `json:"intent"`
	Parameters           map[string]any `json:"parameters"`
	NeedsClarification   bool           `json:"needs_clarification"`
	ClarificationMessage *string        `json:"clarification_message"`
}

// Classify sends the conversation window, current message and context
// snapshot to the classifier model and parses its free-text reply. Any
// transport failure or unparsable output degrades to a keyword heuristic
// with a forced clarification; Classify never fails.
func (o *LLM) Classify(ctx context.Context, req contractx.ClassifyRequest) contractx.ClassifyResult {
	payload, err := json.Marshal(map[string]any{
		"conversation_history":    formatWindow(req.Window),
		"current_booking_context": req.Context,
		"user_message":            req.Message,
	})
	if err != nil {
		return o.fallback(req)
	}

	out, err := o.classifier.Generate(ctx, []*schema.Message{
		schema.SystemMessage(o.prompts.Classifier),
		schema.UserMessage(string(payload)),
	})
	if err != nil || out == nil {
		log.Warn().Err(err).Msg("intent classification call failed, using keyword fallback")
		return o.fallback(req)
	}

	var raw rawClassifyResponse
	if !extractObject(out.Content, &raw) {
		log.Warn().Str("content", truncate(out.Content, 200)).Msg("unparsable classifier output, using keyword fallback")
		return o.fallback(req)
	}

	intent := contractx.ParseIntent(strings.TrimSpace(raw.Intent))
	if intent == contractx.IntentUnclassified {
		intent = contractx.IntentGeneralInquiry
	}

	// Continuation override: with a booking already in progress, a turn the
	// model reads as make_booking or general_inquiry stays in the booking
	// flow unless the message explicitly switches operation.
	if continuingBooking(req) &&
		(intent == contractx.IntentMakeBooking || intent == contractx.IntentGeneralInquiry) {
		intent = contractx.IntentMakeBooking
	}

	result := contractx.ClassifyResult{
		Intent:             intent,
		Slots:              cleanSlots(raw.Parameters),
		NeedsClarification: raw.NeedsClarification,
	}
	if raw.ClarificationMessage != nil {
		result.ClarificationMessage = strings.TrimSpace(*raw.ClarificationMessage)
	}

	log.Debug().
		Str("intent", string(result.Intent)).
		Int("slots", len(result.Slots)).
		Bool("needs_clarification", result.NeedsClarification).
		Msg("classified intent")

	return result
}

// fallback assigns an intent from domain keywords when the oracle is
// unusable, always forcing a clarification so the user can rephrase.
func (o *LLM) fallback(req contractx.ClassifyRequest) contractx.ClassifyResult {
	msg := strings.ToLower(req.Message)
	continuing := continuingBooking(req)

	var intent contractx.Intent
	switch {
	case containsAny(msg, "available", "availability", "what times", "free tables"):
		intent = contractx.IntentCheckAvailability
	case continuing && containsAny(msg, "book", "reserve", "table", "reservation"):
		intent = contractx.IntentMakeBooking
	case strings.Contains(msg, "cancel") && strings.Contains(msg, "booking"):
		intent = contractx.IntentCancelBooking
	case continuing:
		intent = contractx.IntentMakeBooking
	default:
		intent = contractx.IntentGeneralInquiry
	}

	return contractx.ClassifyResult{
		Intent:               intent,
		Slots:                map[contractx.Slot]any{},
		NeedsClarification:   true,
		ClarificationMessage: fallbackApology,
	}
}

// cleanSlots trims extracted values, drops empty/null/none placeholders and
// coerces party sizes to integers. A value that cannot be coerced is simply
// dropped, leaving the slot unfilled.
func cleanSlots(params map[string]any) map[contractx.Slot]any {
	out := make(map[contractx.Slot]any, len(params))
	for key, value := range params {
		if value == nil {
			continue
		}
		slot := contractx.Slot(key)
		switch slot {
		case contractx.SlotPartySize, contractx.SlotNewPartySize:
			if n, ok := normalizex.PartySize(value); ok {
				out[slot] = n
			}
		case contractx.SlotDate, contractx.SlotTime, contractx.SlotCustomerName,
			contractx.SlotPhone, contractx.SlotBookingReference,
			contractx.SlotNewDate, contractx.SlotNewTime:
			s := strings.TrimSpace(fmt.Sprint(value))
			if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
				continue
			}
			out[slot] = s
		}
	}
	return out
}

func continuingBooking(req contractx.ClassifyRequest) bool {
	if len(req.Context) == 0 {
		return false
	}
	return !containsAny(strings.ToLower(req.Message), operationSwitchKeywords...)
}

func formatWindow(window []contractx.Turn) string {
	var b strings.Builder
	for _, t := range window {
		label := "User"
		if t.Role == contractx.RoleAgent {
			label = "Agent"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
