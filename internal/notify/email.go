package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// EmailSender defines the interface for relaying lead emails.
// Implementations can be swapped (Brevo, SendGrid, SES, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (Receipt, error)
}

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	Sender  Address
	To      []Address
	ReplyTo Address
	Subject string
	HTML    string
	Text    string // Optional plain text body
}

// Receipt is returned when the provider accepted the message.
type Receipt struct {
	MessageID string // empty when the provider did not assign one
}

var (
	// ErrMissingCredential is returned by constructors when the provider credential is absent.
	ErrMissingCredential = errors.New("notify: provider credential missing")

	// ErrNoRecipient is returned when the message has no destination.
	ErrNoRecipient = errors.New("notify: at least one recipient is required")

	// ErrNoSender is returned when the message has no sender address.
	ErrNoSender = errors.New("notify: sender email is required")

	// ErrNoContent is returned when neither subject nor HTML body is set.
	ErrNoContent = errors.New("notify: subject and html body are required")
)

// RejectedError reports a provider response other than its accepted status.
type RejectedError struct {
	Provider string
	Status   int
	Body     any // json.RawMessage when the provider answered JSON, string otherwise
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("notify: %s rejected message with status %d", e.Provider, e.Status)
}

// UnreachableError reports a transport failure talking to the provider.
type UnreachableError struct {
	Provider string
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("notify: %s unreachable: %v", e.Provider, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// Validate checks the fields every provider needs.
func (m EmailMessage) Validate() error {
	if strings.TrimSpace(m.Sender.Email) == "" {
		return ErrNoSender
	}
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if m.Subject == "" || m.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// RecipientEmails lists the destination addresses in order.
func (m EmailMessage) RecipientEmails() []string {
	out := make([]string, 0, len(m.To))
	for _, to := range m.To {
		out = append(out, to.Email)
	}
	return out
}

// decodeProviderBody keeps JSON bodies structured and falls back to raw text.
func decodeProviderBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) && !bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage(trimmed)
	}
	return string(raw)
}
