package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/listing-lead-relay/internal/app/bootstrap"
	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	app := bootstrap.BuildApp(context.Background(), cfg, logger)
	defer app.Close()

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, app.Handler, evt)
	})
}

// handle replays an API Gateway HTTP API event through the same router the
// standalone server uses.
func handle(ctx context.Context, handler http.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	if path == "" {
		path = "/"
	}

	body, err := decodeBody(evt)
	if err != nil {
		// An undecodable body is the same as an empty one to the lead handler.
		body = nil
	}

	target := path
	if qs := strings.TrimSpace(evt.RawQueryString); qs != "" {
		target += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}
	if len(evt.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(evt.Cookies, "; "))
	}
	if host := strings.TrimSpace(evt.RequestContext.DomainName); host != "" {
		req.Host = host
	}
	req.RemoteAddr = strings.TrimSpace(evt.RequestContext.HTTP.SourceIP)

	rw := newResponseBuffer()
	handler.ServeHTTP(rw, req)
	return rw.event(), nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

// responseBuffer collects a handler's response for the Lambda return value.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (r *responseBuffer) Header() http.Header { return r.header }

func (r *responseBuffer) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *responseBuffer) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

func (r *responseBuffer) event() events.APIGatewayV2HTTPResponse {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	headers := make(map[string]string, len(r.header))
	for k, v := range r.header {
		headers[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       r.body.String(),
	}
}
