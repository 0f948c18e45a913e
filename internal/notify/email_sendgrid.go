package notify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

const providerSendGrid = "sendgrid"

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey  string
	BaseURL string // empty uses api.sendgrid.com
	Timeout time.Duration
}

// SendGridSender sends emails via SendGrid's v3 mail/send API.
type SendGridSender struct {
	apiKey  string
	host    string
	timeout time.Duration
	logger  *logging.Logger
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &SendGridSender{
		apiKey:  cfg.APIKey,
		host:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Send sends an email via SendGrid. 202 Accepted is the only accepted status;
// the message id comes back in the X-Message-Id header.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	ctx, span := tracer.Start(ctx, "notify.sendgrid.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("lead.recipients", len(msg.To)))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// A request per send: sendgrid.Client mutates its embedded request body.
	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(s.buildMessage(msg))

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Receipt{}, &UnreachableError{Provider: providerSendGrid, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))

	if response.StatusCode != http.StatusAccepted {
		span.SetStatus(codes.Error, "rejected")
		s.logger.Debug("sendgrid rejected message", "status", response.StatusCode)
		return Receipt{}, &RejectedError{Provider: providerSendGrid, Status: response.StatusCode, Body: decodeProviderBody([]byte(response.Body))}
	}

	return Receipt{MessageID: headerValue(response.Headers, "X-Message-Id")}, nil
}

func (s *SendGridSender) buildMessage(msg EmailMessage) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(msg.Sender.Name, msg.Sender.Email))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail(to.Name, to.Email))
	}
	message.AddPersonalizations(p)

	if msg.Text != "" {
		message.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	message.AddContent(mail.NewContent("text/html", msg.HTML))

	if msg.ReplyTo.Email != "" {
		message.SetReplyTo(mail.NewEmail(msg.ReplyTo.Name, msg.ReplyTo.Email))
	}
	return message
}

func headerValue(headers map[string][]string, key string) string {
	if values := http.Header(headers).Values(key); len(values) > 0 {
		return values[0]
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

var _ EmailSender = (*SendGridSender)(nil)
