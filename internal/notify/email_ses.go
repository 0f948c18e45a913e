package notify

import (
	"context"
	"errors"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

const providerSES = "ses"

// SESAPI is the subset of the sesv2 client used by SESSender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends emails via AWS SES.
type SESSender struct {
	client SESAPI
	logger *logging.Logger
}

// NewSESSender creates a new AWS SES email sender.
func NewSESSender(client SESAPI, logger *logging.Logger) (*SESSender, error) {
	if client == nil {
		return nil, ErrMissingCredential
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SESSender{client: client, logger: logger}, nil
}

// Send sends an email via AWS SES. Any service error carrying an HTTP
// response is a rejection; everything else is treated as unreachable.
func (s *SESSender) Send(ctx context.Context, msg EmailMessage) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	ctx, span := tracer.Start(ctx, "notify.ses.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("lead.recipients", len(msg.To)))

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(formatAddress(msg.Sender)),
		Destination: &types.Destination{
			ToAddresses: make([]string, 0, len(msg.To)),
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
	for _, to := range msg.To {
		input.Destination.ToAddresses = append(input.Destination.ToAddresses, formatAddress(to))
	}
	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.ReplyTo.Email != "" {
		input.ReplyToAddresses = []string{formatAddress(msg.ReplyTo)}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		span.RecordError(err)
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			span.SetStatus(codes.Error, "rejected")
			return Receipt{}, &RejectedError{Provider: providerSES, Status: respErr.HTTPStatusCode(), Body: sesErrorBody(err)}
		}
		span.SetStatus(codes.Error, "transport failure")
		return Receipt{}, &UnreachableError{Provider: providerSES, Err: err}
	}

	return Receipt{MessageID: aws.ToString(output.MessageId)}, nil
}

func sesErrorBody(err error) any {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return map[string]string{
			"code":    apiErr.ErrorCode(),
			"message": apiErr.ErrorMessage(),
		}
	}
	return err.Error()
}

// formatAddress renders an RFC 5322 mailbox, quoting the display name when needed.
func formatAddress(a Address) string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Ensure interface compliance
var _ EmailSender = (*SESSender)(nil)
