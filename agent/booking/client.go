// Package booking talks to the restaurant booking backend and maps
// satisfied intents onto its operations.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/thehungryunicorn/booking-agent/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

// Config for the booking backend. The bearer token is supplied out of band.
type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:8547/api/ConsumerApi/v1/Restaurant/TheHungryUnicorn"`
	Token     string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Microsite string        `envconfig:"MICROSITE" split_words:"true" default:"TheHungryUnicorn"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Client implements contract.Gateway over the backend's form-encoded REST
// protocol. It is immutable after construction and safe to share across
// sessions.
type Client struct {
	baseURL    string
	token      string
	microsite  string
	httpClient *http.Client
}

var _ contractx.Gateway = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("booking base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid booking base url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("booking bearer token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	microsite := strings.TrimSpace(cfg.Microsite)
	if microsite == "" {
		microsite = "TheHungryUnicorn"
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		microsite:  microsite,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) CheckAvailability(ctx context.Context, visitDate string, partySize int) contractx.ActionResult {
	form := url.Values{}
	form.Set("VisitDate", visitDate)
	form.Set("PartySize", strconv.Itoa(partySize))
	form.Set("ChannelCode", "ONLINE")
	return c.exec(ctx, http.MethodPost, "/AvailabilitySearch", form)
}

func (c *Client) CreateBooking(ctx context.Context, req contractx.BookingRequest) contractx.ActionResult {
	form := url.Values{}
	form.Set("VisitDate", req.VisitDate)
	form.Set("VisitTime", req.VisitTime)
	form.Set("PartySize", strconv.Itoa(req.PartySize))
	form.Set("ChannelCode", "ONLINE")
	form.Set("Customer[FirstName]", req.FirstName)
	form.Set("Customer[Surname]", req.Surname)
	form.Set("Customer[Email]", req.Email)
	form.Set("Customer[Mobile]", req.Mobile)
	return c.exec(ctx, http.MethodPost, "/BookingWithStripeToken", form)
}

func (c *Client) GetBooking(ctx context.Context, reference string) contractx.ActionResult {
	return c.exec(ctx, http.MethodGet, "/Booking/"+url.PathEscape(reference), nil)
}

func (c *Client) UpdateBooking(ctx context.Context, reference string, patch contractx.BookingPatch) contractx.ActionResult {
	form := url.Values{}
	if patch.VisitDate != "" {
		form.Set("VisitDate", patch.VisitDate)
	}
	if patch.VisitTime != "" {
		form.Set("VisitTime", patch.VisitTime)
	}
	if patch.PartySize > 0 {
		form.Set("PartySize", strconv.Itoa(patch.PartySize))
	}
	if len(form) == 0 {
		return contractx.ActionResult{Status: http.StatusBadRequest, Error: "no update parameters provided"}
	}
	return c.exec(ctx, http.MethodPatch, "/Booking/"+url.PathEscape(reference), form)
}

func (c *Client) CancelBooking(ctx context.Context, reference string) contractx.ActionResult {
	form := url.Values{}
	form.Set("micrositeName", c.microsite)
	form.Set("bookingReference", reference)
	// 1 = customer request.
	form.Set("cancellationReasonId", "1")
	return c.exec(ctx, http.MethodPost, "/Booking/"+url.PathEscape(reference)+"/Cancel", form)
}

// exec is the single request executor: it builds the call, classifies the
// outcome and always returns a uniform result. Transport-level failures and
// panics while building the request both land as status 500; nothing is
// raised to the caller.
func (c *Client) exec(ctx context.Context, method, path string, form url.Values) contractx.ActionResult {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return contractx.ActionResult{Status: http.StatusInternalServerError, Error: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("booking backend unreachable")
		return contractx.ActionResult{
			Status: http.StatusInternalServerError,
			Error:  "could not reach the restaurant booking system, please try again shortly",
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return contractx.ActionResult{Status: http.StatusInternalServerError, Error: fmt.Sprintf("read response: %v", err)}
	}

	log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("booking backend call")

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return contractx.ActionResult{Status: resp.StatusCode, Data: asJSON(raw)}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return contractx.ActionResult{Status: resp.StatusCode, Error: msg}
}

// asJSON keeps a JSON body verbatim and wraps anything else as a JSON
// string so the payload stays marshalable downstream.
func asJSON(raw []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, err := json.Marshal(trimmed)
	if err != nil {
		return json.RawMessage("null")
	}
	return quoted
}
