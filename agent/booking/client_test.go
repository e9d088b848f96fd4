package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	form   map[string]string
}

func newTestClient(t *testing.T, status int, body string) (*Client, *recordedRequest, func()) {
	t.Helper()

	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.form = map[string]string{}
		if err := r.ParseForm(); err == nil {
			for key := range r.PostForm {
				rec.form[key] = r.PostForm.Get(key)
			}
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))

	client, err := NewClient(Config{BaseURL: server.URL, Token: "test-token"})
	if err != nil {
		server.Close()
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, rec, server.Close
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{BaseURL: "http://localhost:8547", Token: ""}); err == nil {
		t.Error("missing token must be rejected")
	}
	if _, err := NewClient(Config{BaseURL: "", Token: "t"}); err == nil {
		t.Error("missing base url must be rejected")
	}
	if _, err := NewClient(Config{BaseURL: "not a url", Token: "t"}); err == nil {
		t.Error("malformed base url must be rejected")
	}
}

func TestCheckAvailabilityRequestShape(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusOK, `{"available_slots": []}`)
	defer done()

	result := client.CheckAvailability(context.Background(), "2025-03-13", 4)
	if !result.OK() {
		t.Fatalf("result = %+v, want success", result)
	}
	if rec.method != http.MethodPost || rec.path != "/AvailabilitySearch" {
		t.Fatalf("request = %s %s, want POST /AvailabilitySearch", rec.method, rec.path)
	}
	if rec.auth != "Bearer test-token" {
		t.Errorf("auth header = %q", rec.auth)
	}
	if rec.form["VisitDate"] != "2025-03-13" || rec.form["PartySize"] != "4" || rec.form["ChannelCode"] != "ONLINE" {
		t.Errorf("form = %v", rec.form)
	}
}

func TestCreateBookingRequestShape(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusCreated, `{"booking_reference": "ABC1234"}`)
	defer done()

	result := client.CreateBooking(context.Background(), contractx.BookingRequest{
		VisitDate: "2025-03-13",
		VisitTime: "19:00",
		PartySize: 4,
		FirstName: "John",
		Surname:   "Smith",
		Email:     "john.smith@example.com",
		Mobile:    "123-456-7890",
	})
	if !result.OK() {
		t.Fatalf("result = %+v, want success", result)
	}
	if rec.path != "/BookingWithStripeToken" {
		t.Fatalf("path = %s", rec.path)
	}
	want := map[string]string{
		"VisitDate":           "2025-03-13",
		"VisitTime":           "19:00",
		"PartySize":           "4",
		"Customer[FirstName]": "John",
		"Customer[Surname]":   "Smith",
		"Customer[Email]":     "john.smith@example.com",
		"Customer[Mobile]":    "123-456-7890",
	}
	for key, value := range want {
		if rec.form[key] != value {
			t.Errorf("form[%s] = %q, want %q", key, rec.form[key], value)
		}
	}
}

func TestGetBookingEscapesReference(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusOK, `{"status": "confirmed"}`)
	defer done()

	client.GetBooking(context.Background(), "ABC/123")
	if rec.method != http.MethodGet {
		t.Fatalf("method = %s, want GET", rec.method)
	}
	if rec.path != "/Booking/ABC/123" { // httptest decodes %2F back to /
		t.Errorf("path = %s", rec.path)
	}
}

func TestUpdateBookingSendsOnlyChangedFields(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusOK, `{}`)
	defer done()

	client.UpdateBooking(context.Background(), "ABC1234", contractx.BookingPatch{VisitTime: "20:00"})
	if rec.method != http.MethodPatch || rec.path != "/Booking/ABC1234" {
		t.Fatalf("request = %s %s", rec.method, rec.path)
	}
	if rec.form["VisitTime"] != "20:00" {
		t.Errorf("form = %v", rec.form)
	}
	if _, ok := rec.form["VisitDate"]; ok {
		t.Error("unchanged VisitDate must not be sent")
	}
}

func TestUpdateBookingRejectsEmptyPatchLocally(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusOK, `{}`)
	defer done()

	result := client.UpdateBooking(context.Background(), "ABC1234", contractx.BookingPatch{})
	if result.OK() {
		t.Fatal("empty patch must fail")
	}
	if rec.method != "" {
		t.Error("empty patch must not reach the backend")
	}
}

func TestCancelBookingRequestShape(t *testing.T) {
	t.Parallel()

	client, rec, done := newTestClient(t, http.StatusOK, `{"status": "cancelled"}`)
	defer done()

	client.CancelBooking(context.Background(), "ABC1234")
	if rec.path != "/Booking/ABC1234/Cancel" {
		t.Fatalf("path = %s", rec.path)
	}
	if rec.form["micrositeName"] != "TheHungryUnicorn" ||
		rec.form["bookingReference"] != "ABC1234" ||
		rec.form["cancellationReasonId"] != "1" {
		t.Errorf("form = %v", rec.form)
	}
}

func TestExecMapsBackendError(t *testing.T) {
	t.Parallel()

	client, _, done := newTestClient(t, http.StatusNotFound, `{"detail": "Booking not found"}`)
	defer done()

	result := client.GetBooking(context.Background(), "NOPE999")
	if result.OK() {
		t.Fatal("404 must not be OK")
	}
	if result.Status != http.StatusNotFound {
		t.Errorf("status = %d", result.Status)
	}
	if result.Error == "" {
		t.Error("error body must be surfaced")
	}
}

func TestExecMapsTransportFailure(t *testing.T) {
	t.Parallel()

	client, _, done := newTestClient(t, http.StatusOK, `{}`)
	done() // server gone, every call now fails at transport level

	result := client.CheckAvailability(context.Background(), "2025-03-13", 2)
	if result.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", result.Status)
	}
	if result.Error == "" {
		t.Error("transport failure must carry a message")
	}
}

func TestExecWrapsNonJSONBody(t *testing.T) {
	t.Parallel()

	client, _, done := newTestClient(t, http.StatusOK, "plain text response")
	defer done()

	result := client.GetBooking(context.Background(), "ABC1234")
	if !result.OK() {
		t.Fatalf("result = %+v", result)
	}
	var s string
	if err := json.Unmarshal(result.Data, &s); err != nil {
		t.Fatalf("data is not a JSON string: %v", err)
	}
	if s != "plain text response" {
		t.Errorf("data = %q", s)
	}
}
