// Package resend sends email through the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	resendapi "github.com/resend/resend-go/v2"

	"github.com/louisbranch/spawnbot/internal/services/web/email"
)

// DefaultBaseURL is the Resend API origin.
const DefaultBaseURL = "https://api.resend.com/"

var _ email.Sender = (*Client)(nil)

// Client adapts the Resend SDK to email.Sender.
type Client struct {
	api *resendapi.Client
}

// New creates a client. An empty baseURL uses DefaultBaseURL and a nil
// client uses a client with a ten second timeout.
func New(apiKey, baseURL string, client *http.Client) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	api := resendapi.NewCustomClient(client, apiKey)
	api.BaseURL = base
	return &Client{api: api}, nil
}

// parseBaseURL keeps a trailing slash so SDK paths resolve under it.
func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse resend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("resend base url %q must be absolute", raw)
	}
	return base, nil
}

// Send delivers msg.
func (c *Client) Send(ctx context.Context, msg email.Message) error {
	sent, err := c.api.Emails.SendWithContext(ctx, &resendapi.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	if sent == nil || sent.Id == "" {
		return errors.New("resend response has no message id")
	}
	return nil
}
