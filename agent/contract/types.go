package contract

import "encoding/json"

// Intent is the classified purpose of a single user turn. It is recomputed
// every turn and never merged with previous turns.
type Intent string

const (
	IntentCheckAvailability Intent = "check_availability"
	IntentMakeBooking       Intent = "make_booking"
	IntentCheckBooking      Intent = "check_booking"
	IntentModifyBooking     Intent = "modify_booking"
	IntentCancelBooking     Intent = "cancel_booking"
	IntentGeneralInquiry    Intent = "general_inquiry"
	IntentUnclassified      Intent = "unclassified"
)

// Actionable reports whether the intent maps to a backend operation.
func (i Intent) Actionable() bool {
	switch i {
	case IntentCheckAvailability, IntentMakeBooking, IntentCheckBooking,
		IntentModifyBooking, IntentCancelBooking:
		return true
	}
	return false
}

// ParseIntent maps a raw classifier string onto the closed intent set.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentCheckAvailability, IntentMakeBooking, IntentCheckBooking,
		IntentModifyBooking, IntentCancelBooking, IntentGeneralInquiry:
		return Intent(s)
	}
	return IntentUnclassified
}

// Slot names form a closed set; the booking context rejects anything else.
type Slot string

const (
	SlotDate             Slot = "date"
	SlotTime             Slot = "time"
	SlotPartySize        Slot = "party_size"
	SlotCustomerName     Slot = "customer_name"
	SlotPhone            Slot = "phone"
	SlotBookingReference Slot = "booking_reference"
	SlotNewDate          Slot = "new_date"
	SlotNewTime          Slot = "new_time"
	SlotNewPartySize     Slot = "new_party_size"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role string `json:"role"` // "user" | "agent"
	Text string `json:"text"`
}

const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Clarification is set by any pipeline stage that discovers missing or
// invalid information. Once set in a turn it short-circuits execution.
type Clarification struct {
	Needed  bool   `json:"needed"`
	Message string `json:"message,omitempty"`
}

// ClassifyRequest carries the bounded conversation window, the current
// message and a snapshot of the accumulated context to the oracle.
type ClassifyRequest struct {
	Window  []Turn         `json:"conversation_window"`
	Message string         `json:"user_message"`
	Context map[string]any `json:"booking_context"`
}

// ClassifyResult is the cleaned outcome of one classification call. Slots
// holds only values that survived trimming and coercion.
type ClassifyResult struct {
	Intent               Intent
	Slots                map[Slot]any
	NeedsClarification   bool
	ClarificationMessage string
}

// GenerateRequest feeds the response generator. ActionResult is nil when no
// backend call was made this turn.
type GenerateRequest struct {
	Intent       Intent         `json:"intent"`
	Slots        map[Slot]any   `json:"parameters"`
	ActionResult *ActionResult  `json:"api_response,omitempty"`
	Context      map[string]any `json:"booking_context"`
}

// ActionResult is the uniform outcome of a backend call: success carries
// Data, failure carries Error. Transport-level failures arrive as status 500.
type ActionResult struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OK reports whether the backend call succeeded.
func (r *ActionResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}
