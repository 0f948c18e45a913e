package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

// StubEmailSender is a no-op sender for local development.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}
	id := "stub-" + uuid.NewString()
	s.logger.InfoContext(ctx, "stub email sender: would send email", "to", msg.RecipientEmails(), "subject", msg.Subject, "message_id", id)
	return Receipt{MessageID: id}, nil
}

var _ EmailSender = (*StubEmailSender)(nil)
