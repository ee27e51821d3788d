package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// E-wallet channel codes accepted by the provider.
const (
	ChannelGCash   = "PH_GCASH"
	ChannelPayMaya = "PH_PAYMAYA"
)

// ChargeRequest describes one e-wallet charge to create.
type ChargeRequest struct {
	ReferenceID        string
	Amount             decimal.Decimal
	ChannelCode        string
	SuccessRedirectURL string
	FailureRedirectURL string
	CallbackURL        string
	Metadata           map[string]string
}

// ChargeResult holds the provider's identifiers and checkout URLs for a
// created charge.
type ChargeResult struct {
	ID                  string
	ReferenceID         string
	DesktopCheckoutURL  string
	MobileCheckoutURL   string
	DeeplinkCheckoutURL string
}

// CheckoutURL picks the URL to redirect the customer to, preferring the
// desktop web checkout, then mobile web, then the app deeplink.
func (r *ChargeResult) CheckoutURL() string {
	if r.DesktopCheckoutURL != "" {
		return r.DesktopCheckoutURL
	}
	if r.MobileCheckoutURL != "" {
		return r.MobileCheckoutURL
	}
	return r.DeeplinkCheckoutURL
}

// Gateway abstracts the external e-wallet provider so checkout can be tested
// without network access.
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// XenditClient talks to the Xendit e-wallet charges API.
type XenditClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewXenditClient creates a gateway client. The HTTP client carries a timeout
// so a hung provider call cannot block checkout initiation indefinitely.
func NewXenditClient(secretKey string) *XenditClient {
	return &XenditClient{
		secretKey: secretKey,
		baseURL:   "https://api.xendit.co",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewXenditClientWithBaseURL creates a client against a custom endpoint.
func NewXenditClientWithBaseURL(secretKey, baseURL string) *XenditClient {
	c := NewXenditClient(secretKey)
	c.baseURL = baseURL
	return c
}

type chargeBody struct {
	ReferenceID       string            `json:"reference_id"`
	Amount            int64             `json:"amount"`
	Currency          string            `json:"currency"`
	CheckoutMethod    string            `json:"checkout_method"`
	ChannelCode       string            `json:"channel_code"`
	ChannelProperties map[string]string `json:"channel_properties"`
	CallbackURL       string            `json:"callback_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type chargeResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	Actions     struct {
		DesktopWebCheckoutURL  string `json:"desktop_web_checkout_url"`
		MobileWebCheckoutURL   string `json:"mobile_web_checkout_url"`
		MobileDeeplinkCheckout string `json:"mobile_deeplink_checkout_url"`
	} `json:"actions"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// CreateCharge creates a one-time e-wallet charge. The provider expects the
// amount as whole pesos, rounded.
func (c *XenditClient) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("xendit secret key is not configured")
	}

	body := chargeBody{
		ReferenceID:    req.ReferenceID,
		Amount:         req.Amount.Round(0).IntPart(),
		Currency:       "PHP",
		CheckoutMethod: "ONE_TIME_PAYMENT",
		ChannelCode:    req.ChannelCode,
		ChannelProperties: map[string]string{
			"success_redirect_url": req.SuccessRedirectURL,
			"failure_redirect_url": req.FailureRedirectURL,
		},
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/ewallets/charges", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.SetBasicAuth(c.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read charge response: %w", err)
	}

	var parsed chargeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	if resp.StatusCode >= 400 || parsed.ErrorCode != "" {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("charge rejected: %s", msg)
	}

	return &ChargeResult{
		ID:                  parsed.ID,
		ReferenceID:         parsed.ReferenceID,
		DesktopCheckoutURL:  parsed.Actions.DesktopWebCheckoutURL,
		MobileCheckoutURL:   parsed.Actions.MobileWebCheckoutURL,
		DeeplinkCheckoutURL: parsed.Actions.MobileDeeplinkCheckout,
	}, nil
}
