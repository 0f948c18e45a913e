package bootstrap

import (
	"context"
	"fmt"

	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
	"github.com/wolfman30/listing-lead-relay/internal/leads"
	"github.com/wolfman30/listing-lead-relay/internal/notify"
	"github.com/wolfman30/listing-lead-relay/internal/observability/metrics"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

// BuildEmailSender selects the mail relay named by MAIL_PROVIDER. When the
// relay cannot be built it returns a nil sender and a reason suitable for
// the client-facing hint; the process keeps serving and every POST answers
// 500 until the environment is fixed.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, string, string) {
	if cfg == nil {
		return nil, "", "missing config"
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	credential, envKey := cfg.RelayCredential()
	if credential == "" {
		return nil, providerName(cfg), envKey + " not set"
	}

	switch cfg.MailProvider {
	case appconfig.ProviderStub:
		return notify.NewStubEmailSender(logger), appconfig.ProviderStub, ""

	case appconfig.ProviderSendGrid:
		sender, err := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:  cfg.SendGridAPIKey,
			BaseURL: cfg.SendGridBaseURL,
			Timeout: cfg.RelayTimeout,
		}, logger)
		if err != nil {
			return nil, appconfig.ProviderSendGrid, envKey + " not set"
		}
		return sender, appconfig.ProviderSendGrid, ""

	case appconfig.ProviderSES:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			return nil, appconfig.ProviderSES, fmt.Sprintf("AWS config unavailable: %v", err)
		}
		sender, err := notify.NewSESSender(NewSESClient(awsCfg, cfg.AWSEndpointOverride), logger)
		if err != nil {
			return nil, appconfig.ProviderSES, envKey + " not set"
		}
		return sender, appconfig.ProviderSES, ""

	default:
		if cfg.MailProvider != appconfig.ProviderBrevo {
			logger.Warn("unknown MAIL_PROVIDER, falling back to brevo", "mail_provider", cfg.MailProvider)
		}
		sender, err := notify.NewBrevoSender(notify.BrevoConfig{
			APIKey:         cfg.BrevoAPIKey,
			BaseURL:        cfg.BrevoBaseURL,
			ConnectTimeout: cfg.RelayConnectTimeout,
			Timeout:        cfg.RelayTimeout,
		}, logger)
		if err != nil {
			return nil, appconfig.ProviderBrevo, envKey + " not set"
		}
		return sender, appconfig.ProviderBrevo, ""
	}
}

func providerName(cfg *appconfig.Config) string {
	switch cfg.MailProvider {
	case appconfig.ProviderSendGrid, appconfig.ProviderSES, appconfig.ProviderStub:
		return cfg.MailProvider
	default:
		return appconfig.ProviderBrevo
	}
}

// LeadConfig maps process configuration onto the handler's static input.
func LeadConfig(cfg *appconfig.Config, misconfigHint string) leads.Config {
	recipients := make([]notify.Address, 0, len(cfg.Recipients))
	for _, r := range cfg.Recipients {
		recipients = append(recipients, notify.Address{Email: r.Email, Name: r.Name})
	}

	var sender notify.Address
	if cfg.HasFixedSender() {
		sender = notify.Address{Email: cfg.BrevoSenderEmail, Name: cfg.BrevoSenderName}
	}

	return leads.Config{
		Sender:        sender,
		Recipients:    recipients,
		Listing:       leads.Listing(cfg.Listing),
		MisconfigHint: misconfigHint,
	}
}

// BuildLeadHandler wires the relay and the lead handler in one step.
func BuildLeadHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.LeadMetrics) *leads.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	sender, provider, reason := BuildEmailSender(ctx, cfg, logger)
	if sender == nil {
		logger.Error("mail relay disabled", "provider", provider, "reason", reason)
	} else {
		logger.Info("mail relay configured", "provider", provider, "recipients", len(cfg.Recipients))
	}
	if !cfg.HasFixedSender() {
		logger.Warn("BREVO_SENDER_EMAIL not set; leads will be sent from the submitter's address, which the provider may reject")
	}

	return leads.NewHandler(sender, LeadConfig(cfg, reason), logger, m)
}
