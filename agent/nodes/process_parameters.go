package nodes

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	normalizex "github.com/thehungryunicorn/booking-agent/agent/normalize"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

// requiredSlots lists the slots each intent needs, in the order they are
// asked for. Clarifications name only the first missing one.
var requiredSlots = map[contractx.Intent][]contractx.Slot{
	contractx.IntentCheckAvailability: {contractx.SlotDate, contractx.SlotPartySize},
	contractx.IntentMakeBooking: {
		contractx.SlotDate, contractx.SlotTime, contractx.SlotPartySize,
		contractx.SlotCustomerName, contractx.SlotPhone,
	},
	contractx.IntentCheckBooking:  {contractx.SlotBookingReference},
	contractx.IntentCancelBooking: {contractx.SlotBookingReference},
	contractx.IntentModifyBooking: {contractx.SlotBookingReference},
}

var slotLabels = map[contractx.Slot]string{
	contractx.SlotDate:             "date",
	contractx.SlotTime:             "time",
	contractx.SlotPartySize:        "number of people",
	contractx.SlotCustomerName:     "your name",
	contractx.SlotPhone:            "phone number",
	contractx.SlotBookingReference: "booking reference",
}

// ProcessParameters merges the turn's extracted slots into the booking
// context (last write wins), normalizes the date/time slots, then checks
// the intent's required fields. A normalization failure or a missing field
// produces a targeted clarification; a clarification already pending from
// classification is left in place.
func ProcessParameters(in *TurnState) (*TurnState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: turn state is incomplete", contractx.ErrValidation)
	}

	sess := in.Session
	c := &sess.Context

	for key, value := range in.Slots {
		c.Set(key, value)
	}
	log.Debug().Interface("context", c.Snapshot()).Msg("merged booking context")

	if c.Date != "" {
		parsed, err := normalizex.Date(c.Date, in.Now)
		if err != nil {
			sess.Clarification = dateClarification("date", c.Date)
			c.Date = ""
			return in, nil
		}
		c.Date = parsed
	}
	if c.Time != "" {
		parsed, err := normalizex.Time(c.Time)
		if err != nil {
			sess.Clarification = timeClarification("time", c.Time)
			c.Time = ""
			return in, nil
		}
		c.Time = parsed
	}
	if c.NewDate != "" {
		parsed, err := normalizex.Date(c.NewDate, in.Now)
		if err != nil {
			sess.Clarification = dateClarification("new date", c.NewDate)
			c.NewDate = ""
			return in, nil
		}
		c.NewDate = parsed
	}
	if c.NewTime != "" {
		parsed, err := normalizex.Time(c.NewTime)
		if err != nil {
			sess.Clarification = timeClarification("new time", c.NewTime)
			c.NewTime = ""
			return in, nil
		}
		c.NewTime = parsed
	}

	// A clarification set earlier in the turn (the classifier fallback)
	// short-circuits the turn; the required-field verdict must not clear it.
	if sess.Clarification.Needed {
		return in, nil
	}

	missing := missingSlots(sess.Intent, c)
	if len(missing) == 0 {
		sess.Clarification = contractx.Clarification{}
		return in, nil
	}

	label := slotLabels[missing[0]]
	msg := fmt.Sprintf("I need your %s to continue. Could you please provide it?", label)
	if len(missing) == 1 {
		msg = fmt.Sprintf("I need your %s to complete the booking. Could you please provide it?", label)
	}
	sess.Clarification = contractx.Clarification{Needed: true, Message: msg}
	return in, nil
}

func missingSlots(intent contractx.Intent, c *statex.BookingContext) []contractx.Slot {
	var missing []contractx.Slot
	for _, slot := range requiredSlots[intent] {
		if !c.Filled(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

func dateClarification(label, raw string) contractx.Clarification {
	return contractx.Clarification{
		Needed: true,
		Message: fmt.Sprintf("I couldn't understand the %s '%s'. Could you provide it in YYYY-MM-DD format or use terms like 'today', 'tomorrow', or 'next Friday'?",
			label, raw),
	}
}

func timeClarification(label, raw string) contractx.Clarification {
	return contractx.Clarification{
		Needed: true,
		Message: fmt.Sprintf("I couldn't understand the %s '%s'. Could you provide it in HH:MM format (like 19:30) or with AM/PM (like 7:30 PM)?",
			label, raw),
	}
}
