package gmail

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/galeproject/gale/internal/logging"
)

// EmailMessage is a composed outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Validate checks that the message is complete and the recipient parses
// as an email address. It is called before any network request.
func (m *EmailMessage) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("recipient (to) is required")
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", m.To, err)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// raw builds the RFC 2822 message and encodes it the way the Gmail API
// expects (base64url without padding).
func (m *EmailMessage) raw() string {
	var b strings.Builder
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return base64.RawURLEncoding.EncodeToString([]byte(b.String()))
}

// SendResult identifies a sent message.
type SendResult struct {
	MessageID string
	ThreadID  string
}

// SendEmail sends the message from the authenticated account.
func (c *Client) SendEmail(msg *EmailMessage) (*SendResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: msg.raw()}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	logging.WithOperation(slog.Default(), "gmail.send").Debug("email sent",
		slog.String("message_id", sent.Id),
		logging.UserHash(msg.To))
	return &SendResult{MessageID: sent.Id, ThreadID: sent.ThreadId}, nil
}
