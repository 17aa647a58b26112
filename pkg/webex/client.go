// Package webex is a minimal client for the Webex Messages REST API.
package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the production Webex API endpoint.
const DefaultBaseURL = "https://webexapis.com/v1"

// Standard errors for invalid send input, checked before any network I/O
var (
	ErrInvalidRecipient = errors.New("recipient must be an email address")
	ErrEmptyMessage     = errors.New("message content must not be empty")
)

// AuthError reports a missing or rejected credential. It is fatal for the
// call but never crashes the process.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "webex authentication failed: " + e.Reason
}

// DeliveryError reports a send that failed in transit or was refused by the
// API for a non-auth reason. No retry is attempted; that decision belongs to
// the orchestrator.
type DeliveryError struct {
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("webex delivery failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("webex delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// DeliveryReceipt is the remote identity of a delivered message.
type DeliveryReceipt struct {
	ID      string    `json:"id"`
	RoomID  string    `json:"roomId,omitempty"`
	Created time.Time `json:"created,omitempty"`
}

// Client sends messages through the Webex Messages API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	token      string
	httpClient *http.Client
}

// NewClient creates a client with the given bearer token. An empty token is
// allowed at construction time; sends will then fail with an AuthError.
func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// message is the Webex Messages API request body. Text and Markdown are
// mutually exclusive; Attachments carries an adaptive card when present.
type message struct {
	ToPersonEmail string       `json:"toPersonEmail"`
	Text          string       `json:"text,omitempty"`
	Markdown      string       `json:"markdown,omitempty"`
	Attachments   []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	ContentType string         `json:"contentType"`
	Content     map[string]any `json:"content"`
}

// SendMessage delivers body to recipient as plain text, or as markdown when
// markdown is true.
func (c *Client) SendMessage(ctx context.Context, recipient, body string, markdown bool) (*DeliveryReceipt, error) {
	if err := validateRecipient(recipient); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	msg := message{ToPersonEmail: recipient}
	if markdown {
		msg.Markdown = body
	} else {
		msg.Text = body
	}

	return c.post(ctx, msg)
}

// SendCard delivers an adaptive card to recipient. The fallback text is shown
// by clients that cannot render cards.
func (c *Client) SendCard(ctx context.Context, recipient, fallback string, card map[string]any) (*DeliveryReceipt, error) {
	if err := validateRecipient(recipient); err != nil {
		return nil, err
	}
	if len(card) == 0 {
		return nil, ErrEmptyMessage
	}

	msg := message{
		ToPersonEmail: recipient,
		Text:          fallback,
		Attachments: []attachment{{
			ContentType: CardContentType,
			Content:     card,
		}},
	}

	return c.post(ctx, msg)
}

// post is the single compose-and-transport path shared by text and card
// sends. Exactly one outbound request is issued per call.
func (c *Client) post(ctx context.Context, msg message) (*DeliveryReceipt, error) {
	if c.token == "" {
		return nil, &AuthError{Reason: "access token is not configured"}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, &DeliveryError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, &DeliveryError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Reason: fmt.Sprintf("credential rejected by API (status %d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &DeliveryError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var receipt DeliveryReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}

	log.Info("message delivered", "recipient", msg.ToPersonEmail, "message_id", receipt.ID)
	return &receipt, nil
}

func validateRecipient(recipient string) error {
	addr, err := mail.ParseAddress(recipient)
	if err != nil || addr.Address != recipient {
		return ErrInvalidRecipient
	}
	return nil
}
