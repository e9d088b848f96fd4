package state

import (
	"strings"
	"time"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

// maxHistoryEntries bounds the conversation history to the most recent ten
// exchanges (user+agent pairs). Older entries are silently dropped.
const maxHistoryEntries = 20

// BookingContext is the cross-turn accumulation of filled slots for the
// in-progress operation. A zero field means "not yet known"; empty strings,
// "null" and "none" are never stored.
type BookingContext struct {
	Date             string `json:"date,omitempty"`
	Time             string `json:"time,omitempty"`
	PartySize        int    `json:"party_size,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	Phone            string `json:"phone,omitempty"`
	BookingReference string `json:"booking_reference,omitempty"`
	NewDate          string `json:"new_date,omitempty"`
	NewTime          string `json:"new_time,omitempty"`
	NewPartySize     int    `json:"new_party_size,omitempty"`
}

// Set stores a slot value, overwriting any previous value (last write wins).
// Values that represent absence are dropped and Set reports false, as do
// keys outside the closed slot set.
func (c *BookingContext) Set(key contractx.Slot, value any) bool {
	switch key {
	case contractx.SlotPartySize, contractx.SlotNewPartySize:
		n, ok := value.(int)
		if !ok || n <= 0 {
			return false
		}
		if key == contractx.SlotPartySize {
			c.PartySize = n
		} else {
			c.NewPartySize = n
		}
		return true
	case contractx.SlotDate, contractx.SlotTime, contractx.SlotCustomerName,
		contractx.SlotPhone, contractx.SlotBookingReference,
		contractx.SlotNewDate, contractx.SlotNewTime:
		s, ok := value.(string)
		if !ok {
			return false
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return false
		}
		switch key {
		case contractx.SlotDate:
			c.Date = s
		case contractx.SlotTime:
			c.Time = s
		case contractx.SlotCustomerName:
			c.CustomerName = s
		case contractx.SlotPhone:
			c.Phone = s
		case contractx.SlotBookingReference:
			c.BookingReference = s
		case contractx.SlotNewDate:
			c.NewDate = s
		case contractx.SlotNewTime:
			c.NewTime = s
		}
		return true
	}
	return false
}

// Filled reports whether the slot already holds a value.
func (c *BookingContext) Filled(key contractx.Slot) bool {
	switch key {
	case contractx.SlotDate:
		return c.Date != ""
	case contractx.SlotTime:
		return c.Time != ""
	case contractx.SlotPartySize:
		return c.PartySize > 0
	case contractx.SlotCustomerName:
		return c.CustomerName != ""
	case contractx.SlotPhone:
		return c.Phone != ""
	case contractx.SlotBookingReference:
		return c.BookingReference != ""
	case contractx.SlotNewDate:
		return c.NewDate != ""
	case contractx.SlotNewTime:
		return c.NewTime != ""
	case contractx.SlotNewPartySize:
		return c.NewPartySize > 0
	}
	return false
}

// Empty reports whether no slot has been filled yet.
func (c *BookingContext) Empty() bool {
	return *c == BookingContext{}
}

// Snapshot renders the filled slots as a map for prompt serialization.
func (c *BookingContext) Snapshot() map[string]any {
	out := make(map[string]any, 9)
	put := func(key contractx.Slot, v any) {
		out[string(key)] = v
	}
	if c.Date != "" {
		put(contractx.SlotDate, c.Date)
	}
	if c.Time != "" {
		put(contractx.SlotTime, c.Time)
	}
	if c.PartySize > 0 {
		put(contractx.SlotPartySize, c.PartySize)
	}
	if c.CustomerName != "" {
		put(contractx.SlotCustomerName, c.CustomerName)
	}
	if c.Phone != "" {
		put(contractx.SlotPhone, c.Phone)
	}
	if c.BookingReference != "" {
		put(contractx.SlotBookingReference, c.BookingReference)
	}
	if c.NewDate != "" {
		put(contractx.SlotNewDate, c.NewDate)
	}
	if c.NewTime != "" {
		put(contractx.SlotNewTime, c.NewTime)
	}
	if c.NewPartySize > 0 {
		put(contractx.SlotNewPartySize, c.NewPartySize)
	}
	return out
}

// Session is the per-conversation state. History and Context persist across
// turns; everything else is transient and reset by BeginTurn.
type Session struct {
	SessionID string           `json:"session_id"`
	History   []contractx.Turn `json:"history,omitempty"`
	Context   BookingContext   `json:"booking_context"`

	// Transient, valid for the current turn only.
	UserMessage      string                  `json:"-"`
	Intent           contractx.Intent        `json:"-"`
	Clarification    contractx.Clarification `json:"-"`
	LastActionResult *contractx.ActionResult `json:"-"`
	AgentResponse    string                  `json:"-"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

// BeginTurn resets the transient fields and installs the new user message.
func (s *Session) BeginTurn(message string, now time.Time) {
	s.UserMessage = message
	s.Intent = contractx.IntentUnclassified
	s.Clarification = contractx.Clarification{}
	s.LastActionResult = nil
	s.AgentResponse = ""
	s.UpdatedAt = now.UTC()
}

// AddTurn appends one history entry, dropping the oldest entries once the
// bound is exceeded.
func (s *Session) AddTurn(role, text string) {
	s.History = append(s.History, contractx.Turn{Role: role, Text: text})
	if len(s.History) > maxHistoryEntries {
		s.History = append(s.History[:0:0], s.History[len(s.History)-maxHistoryEntries:]...)
	}
}

// Window returns the most recent n history entries in chronological order.
func (s *Session) Window(n int) []contractx.Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
