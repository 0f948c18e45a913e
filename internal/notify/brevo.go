package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

const (
	providerBrevo       = "brevo"
	defaultBrevoBaseURL = "https://api.brevo.com"
	brevoSendPath       = "/v3/smtp/email"
	maxProviderBody     = 64 << 10
)

var tracer = otel.Tracer("listing-lead-relay.internal.notify")

// BrevoConfig holds configuration for the Brevo transactional email API.
type BrevoConfig struct {
	APIKey         string
	BaseURL        string
	ConnectTimeout time.Duration
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// BrevoSender relays messages through Brevo's /v3/smtp/email endpoint.
type BrevoSender struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

type brevoPayload struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	ReplyTo     *Address  `json:"replyTo,omitempty"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent,omitempty"`
}

type brevoAccepted struct {
	MessageID string `json:"messageId"`
}

// NewBrevoSender creates a Brevo sender. The API key is required.
func NewBrevoSender(cfg BrevoConfig, logger *logging.Logger) (*BrevoSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBrevoBaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = newHTTPClient(cfg.ConnectTimeout, cfg.Timeout)
	}
	return &BrevoSender{
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + brevoSendPath,
		httpClient: client,
		logger:     logger,
	}, nil
}

// newHTTPClient bounds connection setup separately from the whole exchange.
func newHTTPClient(connectTimeout, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: connectTimeout,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Send posts the message to Brevo. 201 Created is the only accepted status.
func (s *BrevoSender) Send(ctx context.Context, msg EmailMessage) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	ctx, span := tracer.Start(ctx, "notify.brevo.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.Int("lead.recipients", len(msg.To)),
		attribute.String("lead.reply_to", msg.ReplyTo.Email),
	)

	payload := brevoPayload{
		Sender:      msg.Sender,
		To:          msg.To,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}
	if msg.ReplyTo.Email != "" {
		replyTo := msg.ReplyTo
		payload.ReplyTo = &replyTo
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return Receipt{}, fmt.Errorf("notify: marshal brevo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return Receipt{}, fmt.Errorf("notify: build brevo request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Receipt{}, &UnreachableError{Provider: providerBrevo, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failure")
		return Receipt{}, &UnreachableError{Provider: providerBrevo, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusCreated {
		span.SetStatus(codes.Error, "rejected")
		s.logger.Debug("brevo rejected message", "status", resp.StatusCode)
		return Receipt{}, &RejectedError{Provider: providerBrevo, Status: resp.StatusCode, Body: decodeProviderBody(raw)}
	}

	var accepted brevoAccepted
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &accepted)
	}
	s.logger.Debug("brevo accepted message", "message_id", accepted.MessageID)
	return Receipt{MessageID: accepted.MessageID}, nil
}

var _ EmailSender = (*BrevoSender)(nil)
