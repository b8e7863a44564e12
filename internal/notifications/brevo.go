package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/contacts"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient sends transactional mail to the site owner through the Brevo API.
type BrevoClient struct {
	apiKey     string
	sender     brevoAddress
	ownerEmail string
	sandbox    bool
	endpoint   string
	httpClient *http.Client
}

// NewBrevoClient returns nil when the API key, sender or owner address is
// missing, which disables notifications.
func NewBrevoClient(apiKey, senderEmail, senderName, ownerEmail string, sandbox bool) *BrevoClient {
	apiKey = strings.TrimSpace(apiKey)
	senderEmail = strings.TrimSpace(senderEmail)
	ownerEmail = strings.TrimSpace(ownerEmail)
	if apiKey == "" || senderEmail == "" || ownerEmail == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	return &BrevoClient{
		apiKey:     apiKey,
		sender:     brevoAddress{Email: senderEmail, Name: senderName},
		ownerEmail: ownerEmail,
		sandbox:    sandbox,
		endpoint:   defaultBrevoEndpoint,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// SendContactNotification mails the owner a copy of a new submission with
// reply-to set to the visitor.
func (c *BrevoClient) SendContactNotification(ctx context.Context, contact contacts.Contact) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}
	html, err := buildContactNotificationHTML(contact)
	if err != nil {
		return "", err
	}

	msg := brevoMessage{
		Sender:      c.sender,
		To:          []brevoAddress{{Email: c.ownerEmail}},
		Subject:     "New contact message: " + contact.Subject,
		HTMLContent: html,
		TextContent: buildContactNotificationText(contact),
	}
	if contact.Email != "" {
		msg.ReplyTo = &brevoAddress{Email: contact.Email, Name: contact.Name}
	}
	return c.send(ctx, msg)
}

func (c *BrevoClient) send(ctx context.Context, msg brevoMessage) (string, error) {
	if err := msg.validate(); err != nil {
		return "", err
	}
	if c.sandbox {
		msg.Headers = map[string]string{"X-Sib-Sandbox": "drop"}
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if out.MessageID == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoMessage struct {
	Sender      brevoAddress      `json:"sender"`
	To          []brevoAddress    `json:"to"`
	ReplyTo     *brevoAddress     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent,omitempty"`
	TextContent string            `json:"textContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

func (m brevoMessage) validate() error {
	switch {
	case len(m.To) == 0 || strings.TrimSpace(m.To[0].Email) == "":
		return errors.New("missing recipient email")
	case strings.TrimSpace(m.Subject) == "":
		return errors.New("missing subject")
	case strings.TrimSpace(m.HTMLContent) == "" && strings.TrimSpace(m.TextContent) == "":
		return errors.New("missing body")
	}
	return nil
}
