package leads

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wolfman30/listing-lead-relay/internal/notify"
	"github.com/wolfman30/listing-lead-relay/internal/observability/metrics"
	"github.com/wolfman30/listing-lead-relay/internal/requestid"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Config is the static, per-process input of the handler.
type Config struct {
	// Sender overrides the From address. When Sender.Email is empty the
	// submitter's own address is used, which most providers will not have
	// verified.
	Sender     notify.Address
	Recipients []notify.Address
	Listing    Listing
	// MisconfigHint is returned to callers when no relay is available.
	MisconfigHint string
}

// Handler serves the lead-contact form endpoint.
type Handler struct {
	sender  notify.EmailSender
	cfg     Config
	logger  *logging.Logger
	metrics *metrics.LeadMetrics
	now     func() time.Time
}

// NewHandler creates a new leads handler. A nil sender means the relay
// credential is missing; every POST is then answered with 500.
func NewHandler(sender notify.EmailSender, cfg Config, logger *logging.Logger, m *metrics.LeadMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MisconfigHint == "" {
		cfg.MisconfigHint = "mail relay credential not set"
	}
	return &Handler{
		sender:  sender,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

type errorResponse struct {
	Error   string      `json:"error"`
	Hint    string      `json:"hint,omitempty"`
	Fields  FieldErrors `json:"fields,omitempty"`
	Status  int         `json:"status,omitempty"`
	Details any         `json:"details,omitempty"`
	ReqID   string      `json:"reqId,omitempty"`
}

type successResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	ReqID     string `json:"reqId,omitempty"`
}

// ServeHTTP handles POST (and OPTIONS preflight) on the lead endpoint.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, ok := requestid.FromContext(r.Context())
	if !ok {
		reqID = requestid.New()
	}
	logger := h.logger.WithRequestID(reqID)
	w.Header().Set("X-Request-ID", reqID)

	if r.Method == http.MethodOptions {
		h.metrics.ObserveSubmission(metrics.OutcomePreflight)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		h.metrics.ObserveSubmission(metrics.OutcomeMethodNotAllowed)
		logger.Warn("Rejected: method not allowed", "method", r.Method)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed, ReqID: reqID})
		return
	}

	if h.sender == nil {
		h.metrics.ObserveSubmission(metrics.OutcomeMisconfigured)
		logger.Error("Relay credential missing", "hint", h.cfg.MisconfigHint)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgMisconfiguration, Hint: h.cfg.MisconfigHint, ReqID: reqID})
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Debug("request body unreadable, treating as empty", "error", err)
		raw = nil
	}
	submission := ParseSubmission(raw)

	if fields := submission.Validate(); fields != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		logger.Warn("Validation failed", "fields", map[string]string(fields))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msgValidationFailed, Fields: fields, ReqID: reqID})
		return
	}

	msg, err := h.buildMessage(submission)
	if err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeRenderFailed)
		logger.Error("Failed to render email", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgRenderFailed, ReqID: reqID})
		return
	}
	recipients := msg.RecipientEmails()
	logger.Info("Validated lead", "from", submission.Email, "to", recipients)

	start := time.Now()
	receipt, err := h.sender.Send(r.Context(), msg)
	elapsed := time.Since(start).Seconds()

	var unreachable *notify.UnreachableError
	var rejected *notify.RejectedError
	switch {
	case err == nil:
		h.metrics.ObserveRelay(metrics.OutcomeSent, elapsed)
		h.metrics.ObserveSubmission(metrics.OutcomeSent)
		logger.Info("Email sent", "subject", msg.Subject, "to", recipients, "message_id", receipt.MessageID)
		writeJSON(w, http.StatusOK, successResponse{Success: true, MessageID: receipt.MessageID, ReqID: reqID})
	case errors.As(err, &rejected):
		h.metrics.ObserveRelay(metrics.OutcomeRejected, elapsed)
		h.metrics.ObserveSubmission(metrics.OutcomeRejected)
		logger.Error("Email rejected by provider", "provider", rejected.Provider, "status", rejected.Status, "to", recipients, "provider_response", rejected.Body)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgSendFailed, Status: rejected.Status, Details: rejected.Body, ReqID: reqID})
	case errors.As(err, &unreachable):
		h.metrics.ObserveRelay(metrics.OutcomeUnreachable, elapsed)
		h.metrics.ObserveSubmission(metrics.OutcomeUnreachable)
		logger.Error("Mail provider unreachable", "provider", unreachable.Provider, "error", unreachable.Err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: msgProviderUnreachable, Details: unreachable.Err.Error(), ReqID: reqID})
	default:
		// Plain errors mean the message itself was unusable, e.g. no recipients configured.
		h.metrics.ObserveSubmission(metrics.OutcomeMisconfigured)
		logger.Error("Mail relay refused message", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgMisconfiguration, Hint: err.Error(), ReqID: reqID})
	}
}

func (h *Handler) buildMessage(s Submission) (notify.EmailMessage, error) {
	rendered, err := Render(s, h.cfg.Listing, h.now())
	if err != nil {
		return notify.EmailMessage{}, err
	}

	lead := notify.Address{Email: s.Email, Name: s.FullName()}
	sender := lead
	if h.cfg.Sender.Email != "" {
		sender = h.cfg.Sender
	}

	return notify.EmailMessage{
		Sender:  sender,
		To:      append([]notify.Address(nil), h.cfg.Recipients...),
		ReplyTo: lead,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
