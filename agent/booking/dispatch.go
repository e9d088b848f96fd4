package booking

import (
	"context"
	"strings"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

const placeholderSurname = "Guest"

// Dispatcher maps a satisfied intent onto exactly one backend operation.
type Dispatcher struct {
	gateway contractx.Gateway
}

func NewDispatcher(gateway contractx.Gateway) *Dispatcher {
	return &Dispatcher{gateway: gateway}
}

// Execute performs the backend call for an actionable intent. It returns a
// nil result plus a clarification when the intent turns out to need more
// information (modify with nothing to change), and a nil result with no
// clarification for non-actionable intents.
func (d *Dispatcher) Execute(ctx context.Context, intent contractx.Intent, c *statex.BookingContext) (*contractx.ActionResult, contractx.Clarification) {
	switch intent {
	case contractx.IntentCheckAvailability:
		res := d.gateway.CheckAvailability(ctx, c.Date, c.PartySize)
		return &res, contractx.Clarification{}

	case contractx.IntentMakeBooking:
		first, surname := splitName(c.CustomerName)
		res := d.gateway.CreateBooking(ctx, contractx.BookingRequest{
			VisitDate: c.Date,
			VisitTime: c.Time,
			PartySize: c.PartySize,
			FirstName: first,
			Surname:   surname,
			// No email is collected from the user; the backend requires
			// one, so a synthetic placeholder address is derived here.
			Email:  syntheticEmail(first, surname),
			Mobile: c.Phone,
		})
		return &res, contractx.Clarification{}

	case contractx.IntentCheckBooking:
		res := d.gateway.GetBooking(ctx, c.BookingReference)
		return &res, contractx.Clarification{}

	case contractx.IntentCancelBooking:
		res := d.gateway.CancelBooking(ctx, c.BookingReference)
		return &res, contractx.Clarification{}

	case contractx.IntentModifyBooking:
		patch := contractx.BookingPatch{
			VisitDate: c.NewDate,
			VisitTime: c.NewTime,
			PartySize: c.NewPartySize,
		}
		if patch.Empty() {
			return nil, contractx.Clarification{
				Needed:  true,
				Message: "What would you like to change about your booking? You can modify the date, time, or party size.",
			}
		}
		res := d.gateway.UpdateBooking(ctx, c.BookingReference, patch)
		return &res, contractx.Clarification{}
	}

	return nil, contractx.Clarification{}
}

// splitName takes the first whitespace token as the first name and the last
// as the surname, falling back to a placeholder for single-token names.
func splitName(full string) (first, surname string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return placeholderSurname, placeholderSurname
	}
	first = parts[0]
	surname = placeholderSurname
	if len(parts) > 1 {
		surname = parts[len(parts)-1]
	}
	return first, surname
}

func syntheticEmail(first, surname string) string {
	return strings.ToLower(first + "." + surname + "@example.com")
}
