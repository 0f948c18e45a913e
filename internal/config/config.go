package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail provider identifiers accepted in MAIL_PROVIDER.
const (
	ProviderBrevo    = "brevo"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderStub     = "stub"
)

// Recipient is one fixed destination mailbox for lead notifications.
type Recipient struct {
	Email string
	Name  string
}

// Listing is the static property metadata embedded in every lead email.
type Listing struct {
	Address      string
	ShortAddress string
	Locality     string
	Price        string
	MLS          string
	Features     string
	SiteName     string
}

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	LeadPath string

	MailProvider string

	// Brevo Email Configuration
	BrevoAPIKey      string
	BrevoBaseURL     string
	BrevoSenderEmail string
	BrevoSenderName  string

	// SendGrid Email Configuration
	SendGridAPIKey  string
	SendGridBaseURL string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	RelayConnectTimeout time.Duration
	RelayTimeout        time.Duration

	CORSAllowedOrigins []string
	Recipients         []Recipient
	Listing            Listing

	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
}

var defaultRecipients = []Recipient{
	{Email: "infowebcrew@gmail.com", Name: "Gercilaine DeSouza"},
	{Email: "luizlz@gmail.com", Name: "Backup Contact"},
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honored for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LeadPath: getEnv("LEAD_PATH", "/send-email"),

		MailProvider: strings.ToLower(strings.TrimSpace(getEnv("MAIL_PROVIDER", ProviderBrevo))),

		BrevoAPIKey:      strings.TrimSpace(getEnv("BREVO_API_KEY", "")),
		BrevoBaseURL:     getEnv("BREVO_BASE_URL", "https://api.brevo.com"),
		BrevoSenderEmail: strings.TrimSpace(getEnv("BREVO_SENDER_EMAIL", "")),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "16Vieira.com"),

		SendGridAPIKey:  strings.TrimSpace(getEnv("SENDGRID_API_KEY", "")),
		SendGridBaseURL: getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RelayConnectTimeout: getEnvAsDuration("RELAY_CONNECT_TIMEOUT", 10*time.Second),
		RelayTimeout:        getEnvAsDuration("RELAY_TIMEOUT", 20*time.Second),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://16vieira.com"}),
		Recipients:         getEnvAsRecipients("LEAD_RECIPIENTS", defaultRecipients),
		Listing: Listing{
			Address:      getEnv("LISTING_ADDRESS", "16 Vieira Dr, Peabody, MA 01960"),
			ShortAddress: getEnv("LISTING_SHORT_ADDRESS", "16 Vieira Dr"),
			Locality:     getEnv("LISTING_LOCALITY", "16 Vieira Dr, Peabody, MA"),
			Price:        getEnv("LISTING_PRICE", "$949,900"),
			MLS:          getEnv("LISTING_MLS", "73427376"),
			Features:     getEnv("LISTING_FEATURES", "3 bedrooms, 3 bathrooms, 2,330 sq ft"),
			SiteName:     getEnv("LISTING_SITE_NAME", "16vieira.com"),
		},

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}
}

// RelayCredential returns the credential required by the selected mail
// provider and the environment variable it comes from. An empty value means
// the relay is misconfigured.
func (c *Config) RelayCredential() (value, envKey string) {
	switch c.MailProvider {
	case ProviderSendGrid:
		return c.SendGridAPIKey, "SENDGRID_API_KEY"
	case ProviderSES:
		return c.AWSRegion, "AWS_REGION"
	case ProviderStub:
		return ProviderStub, "MAIL_PROVIDER"
	default:
		return c.BrevoAPIKey, "BREVO_API_KEY"
	}
}

// HasFixedSender reports whether a verified sender overrides the submitter.
func (c *Config) HasFixedSender() bool {
	return c.BrevoSenderEmail != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsRecipients parses "email|Name,email|Name". The name is optional.
func getEnvAsRecipients(key string, defaultValue []Recipient) []Recipient {
	entries := getEnvAsList(key, nil)
	if len(entries) == 0 {
		return append([]Recipient(nil), defaultValue...)
	}
	out := make([]Recipient, 0, len(entries))
	for _, entry := range entries {
		email, name, _ := strings.Cut(entry, "|")
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		out = append(out, Recipient{Email: email, Name: strings.TrimSpace(name)})
	}
	if len(out) == 0 {
		return append([]Recipient(nil), defaultValue...)
	}
	return out
}
