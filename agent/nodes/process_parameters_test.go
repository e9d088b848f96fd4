package nodes

import (
	"strings"
	"testing"
	"time"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
	statex "github.com/thehungryunicorn/booking-agent/agent/state"
)

var turnNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC) // Wednesday

func newTurn(intent contractx.Intent, slots map[contractx.Slot]any) *TurnState {
	sess := statex.NewSession("s1", turnNow)
	sess.BeginTurn("message", turnNow)
	sess.Intent = intent
	return &TurnState{
		SessionID: "s1",
		Text:      "message",
		Now:       turnNow,
		Session:   sess,
		Slots:     slots,
	}
}

func TestProcessParametersMergesLastWriteWins(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentCheckAvailability, map[contractx.Slot]any{
		contractx.SlotPartySize: 4,
	})
	in.Session.Context.Set(contractx.SlotPartySize, 2)
	in.Session.Context.Set(contractx.SlotDate, "2025-03-13")

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	if out.Session.Context.PartySize != 4 {
		t.Errorf("party size = %d, want 4", out.Session.Context.PartySize)
	}
	if out.Session.Clarification.Needed {
		t.Errorf("unexpected clarification: %q", out.Session.Clarification.Message)
	}
}

func TestProcessParametersNormalizesDateAndTime(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, map[contractx.Slot]any{
		contractx.SlotDate: "tomorrow",
		contractx.SlotTime: "7pm",
	})

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	if out.Session.Context.Date != "2025-03-13" {
		t.Errorf("date = %q, want 2025-03-13", out.Session.Context.Date)
	}
	if out.Session.Context.Time != "19:00" {
		t.Errorf("time = %q, want 19:00", out.Session.Context.Time)
	}
}

func TestProcessParametersUnparsableDateClarifiesAndClears(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, map[contractx.Slot]any{
		contractx.SlotDate: "someday soon",
	})

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	clar := out.Session.Clarification
	if !clar.Needed || !strings.Contains(clar.Message, "someday soon") {
		t.Fatalf("clarification = %+v", clar)
	}
	if !strings.Contains(clar.Message, "YYYY-MM-DD") {
		t.Errorf("clarification should suggest the format, got %q", clar.Message)
	}
	if out.Session.Context.Date != "" {
		t.Errorf("unparsable date must be cleared, got %q", out.Session.Context.Date)
	}
}

func TestProcessParametersUnparsableTimeClarifies(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, map[contractx.Slot]any{
		contractx.SlotTime: "sevenish",
	})

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	clar := out.Session.Clarification
	if !clar.Needed || !strings.Contains(clar.Message, "sevenish") || !strings.Contains(clar.Message, "HH:MM") {
		t.Fatalf("clarification = %+v", clar)
	}
	if out.Session.Context.Time != "" {
		t.Errorf("unparsable time must be cleared, got %q", out.Session.Context.Time)
	}
}

func TestProcessParametersAsksForFirstMissingSlotOnly(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, nil)

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	clar := out.Session.Clarification
	if !clar.Needed {
		t.Fatal("missing fields must trigger a clarification")
	}
	if !strings.Contains(clar.Message, "date") {
		t.Errorf("clarification should name the date first, got %q", clar.Message)
	}
	for _, later := range []string{"time", "number of people", "your name", "phone"} {
		if strings.Contains(clar.Message, later) {
			t.Errorf("clarification must name only the first missing field, got %q", clar.Message)
		}
	}
}

func TestProcessParametersSingleMissingSlotMessage(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, map[contractx.Slot]any{
		contractx.SlotDate:         "2025-03-13",
		contractx.SlotTime:         "19:00",
		contractx.SlotPartySize:    4,
		contractx.SlotCustomerName: "John Smith",
	})

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	clar := out.Session.Clarification
	if !clar.Needed || !strings.Contains(clar.Message, "phone number") {
		t.Fatalf("clarification = %+v", clar)
	}
	if !strings.Contains(clar.Message, "complete the booking") {
		t.Errorf("last missing field should use the completion phrasing, got %q", clar.Message)
	}
}

func TestProcessParametersKeepsEarlierClarification(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentMakeBooking, nil)
	in.Session.Clarification = contractx.Clarification{
		Needed:  true,
		Message: "Could you please rephrase your request?",
	}

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	if out.Session.Clarification.Message != "Could you please rephrase your request?" {
		t.Errorf("earlier clarification replaced: %q", out.Session.Clarification.Message)
	}
}

func TestProcessParametersClearsClarificationWhenComplete(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentCheckAvailability, map[contractx.Slot]any{
		contractx.SlotDate:      "2025-03-13",
		contractx.SlotPartySize: 2,
	})

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	if out.Session.Clarification.Needed {
		t.Errorf("clarification = %+v, want cleared", out.Session.Clarification)
	}
}

func TestProcessParametersGeneralInquiryNeedsNothing(t *testing.T) {
	t.Parallel()

	in := newTurn(contractx.IntentGeneralInquiry, nil)

	out, err := ProcessParameters(in)
	if err != nil {
		t.Fatalf("ProcessParameters() error = %v", err)
	}
	if out.Session.Clarification.Needed {
		t.Errorf("general inquiry must not require slots, got %+v", out.Session.Clarification)
	}
}
