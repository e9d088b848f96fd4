package contract

import "context"

// Oracle is the external text capability behind the agent: a fallible
// classifier/generator. Implementations must be stateless so a single
// instance can serve concurrent sessions. Classify never returns an error
// for malformed model output; it degrades to a heuristic result instead.
type Oracle interface {
	Classify(ctx context.Context, req ClassifyRequest) ClassifyResult
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Gateway is the booking backend. Every call returns a uniform ActionResult
// and never an error: failures are data, classified into the result status.
type Gateway interface {
	CheckAvailability(ctx context.Context, visitDate string, partySize int) ActionResult
	CreateBooking(ctx context.Context, req BookingRequest) ActionResult
	GetBooking(ctx context.Context, reference string) ActionResult
	UpdateBooking(ctx context.Context, reference string, patch BookingPatch) ActionResult
	CancelBooking(ctx context.Context, reference string) ActionResult
}

// BookingRequest is the ephemeral payload for creating a booking.
type BookingRequest struct {
	VisitDate string
	VisitTime string
	PartySize int
	FirstName string
	Surname   string
	Email     string
	Mobile    string
}

// BookingPatch holds the optional changes for an update; empty fields are
// omitted from the request.
type BookingPatch struct {
	VisitDate string
	VisitTime string
	PartySize int
}

// Empty reports whether the patch changes nothing.
func (p BookingPatch) Empty() bool {
	return p.VisitDate == "" && p.VisitTime == "" && p.PartySize == 0
}
