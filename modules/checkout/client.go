package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/robbolivercreates/ridecanvas/modules/common/config"
)

// CheckoutSession is the subset of the payment provider's session object the
// server cares about.
type CheckoutSession struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	PaymentStatus     string `json:"payment_status"`
	Status            string `json:"status"`
	ClientReferenceID string `json:"client_reference_id"`
	AmountTotal       int    `json:"amount_total"`
	Currency          string `json:"currency"`
	CustomerDetails   *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// Paid reports whether the session settled successfully.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// Client talks to the hosted-checkout REST API.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateSession opens a hosted checkout session for one poster set. The
// pending-purchase token rides along as client_reference_id so the return
// handler can restore the wizard snapshot.
func (c *Client) CreateSession(ctx context.Context, token, vehicleName string) (*CheckoutSession, error) {
	cfg := config.GetConfig()

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", token)
	form.Set("success_url", cfg.CheckoutSuccessURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", cfg.CheckoutCancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", cfg.PosterCurrency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(cfg.PosterPriceCents))
	form.Set("line_items[0][price_data][product_data][name]", "Poster Art Set")
	form.Set("line_items[0][price_data][product_data][description]", vehicleName+" — phone, desktop, and print formats")

	session, err := c.do(ctx, "POST", "/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	log.Printf("💳 Checkout session created: %s (token %s)", session.ID, token)
	return session, nil
}

// GetSession fetches a session for payment verification after the redirect
// back from the hosted page.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	return c.do(ctx, "GET", "/v1/checkout/sessions/"+sessionID, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*CheckoutSession, error) {
	cfg := config.GetConfig()

	req, err := http.NewRequestWithContext(ctx, method, cfg.StripeAPIBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.StripeSecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Checkout API error (%d): %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("checkout API returned status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout response: %w", err)
	}
	return &session, nil
}
