package notify

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input  *sesv2.SendEmailInput
	output *sesv2.SendEmailOutput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return f.output, f.err
}

func TestNewSESSender_NilClient(t *testing.T) {
	sender, err := NewSESSender(nil, nil)
	assert.Nil(t, sender)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestSESSender_SendAccepted(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}}
	sender, err := NewSESSender(fake, nil)
	require.NoError(t, err)

	receipt, err := sender.Send(context.Background(), testMessage())
	require.NoError(t, err)
	assert.Equal(t, "ses-1", receipt.MessageID)

	require.NotNil(t, fake.input)
	assert.Equal(t, `"16Vieira.com" <leads@16vieira.com>`, aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{`"Agent" <agent@example.com>`, `"Backup Contact" <backup@example.com>`}, fake.input.Destination.ToAddresses)
	assert.Equal(t, []string{`"Jane Doe" <jane@example.com>`}, fake.input.ReplyToAddresses)
	assert.Equal(t, "<p>Hello & welcome</p>", aws.ToString(fake.input.Content.Simple.Body.Html.Data))
	assert.Nil(t, fake.input.Content.Simple.Body.Text)
}

func TestSESSender_Rejected(t *testing.T) {
	respErr := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusBadRequest}},
			Err:      &smithy.GenericAPIError{Code: "MessageRejected", Message: "Email address is not verified."},
		},
		RequestID: "req-1",
	}
	sender, err := NewSESSender(&fakeSES{err: respErr}, nil)
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), testMessage())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.Equal(t, map[string]string{"code": "MessageRejected", "message": "Email address is not verified."}, rejected.Body)
}

func TestSESSender_Unreachable(t *testing.T) {
	sender, err := NewSESSender(&fakeSES{err: errors.New("dial tcp: connection refused")}, nil)
	require.NoError(t, err)

	_, err = sender.Send(context.Background(), testMessage())
	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "ses", unreachable.Provider)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "a@example.com", formatAddress(Address{Email: "a@example.com"}))
	assert.Equal(t, `"O'Brien, Pat" <pat@example.com>`, formatAddress(Address{Email: "pat@example.com", Name: "O'Brien, Pat"}))
}
