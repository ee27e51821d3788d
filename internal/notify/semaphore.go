package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender sends a text message to a phone number.
type SMSSender interface {
	Send(number, message string) error
}

// SemaphoreClient sends SMS through the Semaphore messaging API.
type SemaphoreClient struct {
	apiKey     string
	senderName string
	baseURL    string
	httpClient *http.Client
}

// NewSemaphoreClient creates an SMS client.
func NewSemaphoreClient(apiKey, senderName string) *SemaphoreClient {
	return &SemaphoreClient{
		apiKey:     apiKey,
		senderName: senderName,
		baseURL:    "https://api.semaphore.co",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSemaphoreClientWithBaseURL creates a client against a custom endpoint.
func NewSemaphoreClientWithBaseURL(apiKey, senderName, baseURL string) *SemaphoreClient {
	c := NewSemaphoreClient(apiKey, senderName)
	c.baseURL = baseURL
	return c
}

// Send posts one message as a form request.
func (c *SemaphoreClient) Send(number, message string) error {
	if c.apiKey == "" {
		return fmt.Errorf("semaphore API key is not configured")
	}

	form := url.Values{
		"apikey":     {c.apiKey},
		"number":     {NormalizeNumber(number)},
		"message":    {message},
		"sendername": {c.senderName},
	}

	resp, err := c.httpClient.PostForm(c.baseURL+"/api/v4/messages", form)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SMS provider returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NormalizeNumber reduces a Philippine phone number to the local 09XXXXXXXXX
// format the provider expects.
func NormalizeNumber(number string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := digits.String()
	if strings.HasPrefix(n, "63") {
		n = "0" + n[2:]
	}
	return n
}
