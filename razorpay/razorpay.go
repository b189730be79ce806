package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"
)

var (
	// ErrInvalidInput marks caller mistakes: non-positive amounts or
	// missing verification fields.
	ErrInvalidInput = errors.New("razorpay: invalid input")
	// ErrUpstream marks a rejection or failure from the Razorpay API.
	ErrUpstream = errors.New("razorpay: upstream failure")
)

const defaultBaseURL = "https://api.razorpay.com"

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string // defaults to the production API
}

// ConfigFromEnv reads RAZORPAY_API_KEY / RAZORPAY_API_SECRET.
func ConfigFromEnv() Config {
	return Config{
		KeyID:     os.Getenv("RAZORPAY_API_KEY"),
		KeySecret: os.Getenv("RAZORPAY_API_SECRET"),
	}
}

// Client talks to the Razorpay orders API. Construct one in main and
// pass it to the handlers that need it.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	httpc     *http.Client
}

func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   base,
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyID returns the publishable key id for the storefront.
func (c *Client) KeyID() string {
	return c.keyID
}

// ProviderOrder is Razorpay's order descriptor. Amount is in paise.
type ProviderOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
	Status   string `json:"status,omitempty"`
}

// CreateOrder creates a provider-side payment order for the given
// amount in major currency units. The amount is converted to paise as
// round(amount*100); the currency is fixed to INR.
func (c *Client) CreateOrder(ctx context.Context, amount float64) (*ProviderOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	body := map[string]any{
		"amount":   MinorUnits(amount),
		"currency": "INR",
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("%w: create order: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	var order ProviderOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: decoding order: %v", ErrUpstream, err)
	}
	return &order, nil
}

// MinorUnits converts a major-unit amount to paise. Assumes a
// two-decimal currency; INR is the only currency this backend submits.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
