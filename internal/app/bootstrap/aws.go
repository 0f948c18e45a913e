package bootstrap

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
)

// LoadAWSConfig resolves region and credentials for the SES relay. Static
// keys win over the default chain when both are set. Retries are disabled;
// a lead is relayed at most once per request.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	httpClient := awshttp.NewBuildableClient().
		WithTimeout(cfg.RelayTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = cfg.RelayConnectTimeout
			d.KeepAlive = 30 * time.Second
		})

	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}

// NewSESClient builds the SES v2 client, honoring AWS_ENDPOINT_OVERRIDE for
// local emulators.
func NewSESClient(awsCfg aws.Config, endpointOverride string) *sesv2.Client {
	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if endpoint := strings.TrimSpace(endpointOverride); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
