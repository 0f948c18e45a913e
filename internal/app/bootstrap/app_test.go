package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
	"github.com/wolfman30/listing-lead-relay/internal/observability/metrics"
)

func TestSetupMetricsExposesLeadSeries(t *testing.T) {
	handler, m := SetupMetrics()
	require.NotNil(t, handler)
	require.NotNil(t, m)

	m.ObserveSubmission(metrics.OutcomeSent)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `lead_relay_form_submissions_total{outcome="sent"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestBuildAppEndToEnd(t *testing.T) {
	var relayed map[string]any
	brevo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		assert.Equal(t, "xkeysib-test", r.Header.Get("api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&relayed))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc123@smtp-relay.mailin.fr>"}`))
	}))
	defer brevo.Close()

	cfg := baseConfig()
	cfg.BrevoAPIKey = "xkeysib-test"
	cfg.BrevoBaseURL = brevo.URL
	cfg.BrevoSenderEmail = "noreply@16vieira.com"
	cfg.LeadPath = "/send-email"
	cfg.CORSAllowedOrigins = []string{"https://16vieira.com"}
	cfg.MetricsEnabled = true
	cfg.RateLimitRPS = 5
	cfg.RateLimitBurst = 5

	app := BuildApp(context.Background(), cfg, quietLogger(&bytes.Buffer{}))
	defer app.Close()

	req := httptest.NewRequest(http.MethodPost, "/send-email",
		strings.NewReader(`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"978-555-0100"}`))
	req.Header.Set("Origin", "https://16vieira.com")
	rr := httptest.NewRecorder()
	app.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "<abc123@smtp-relay.mailin.fr>", resp["messageId"])
	assert.Equal(t, "https://16vieira.com", rr.Header().Get("Access-Control-Allow-Origin"))

	require.NotNil(t, relayed)
	assert.Equal(t, map[string]any{"email": "noreply@16vieira.com", "name": "16Vieira.com"}, relayed["sender"])
	assert.Equal(t, map[string]any{"email": "jane@example.com", "name": "Jane Doe"}, relayed["replyTo"])

	metricsRR := httptest.NewRecorder()
	app.Handler.ServeHTTP(metricsRR, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRR.Body.String(), `lead_relay_form_submissions_total{outcome="sent"} 1`)
}

func TestBuildAppMetricsDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.MailProvider = appconfig.ProviderStub
	cfg.MetricsEnabled = false

	app := BuildApp(context.Background(), cfg, quietLogger(&bytes.Buffer{}))
	defer app.Close()

	rr := httptest.NewRecorder()
	app.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
