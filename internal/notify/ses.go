// internal/notify/ses.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES client used by the transport, defined
// here so tests can substitute a mock.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESTransport delivers messages through Amazon SES.
type SESTransport struct {
	client SESService
	from   string
}

func NewSESTransport(ctx context.Context, region, from string) (*SESTransport, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESTransport{client: ses.NewFromConfig(cfg), from: from}, nil
}

// NewSESTransportWithClient wires an existing client, used in tests.
func NewSESTransportWithClient(client SESService, from string) *SESTransport {
	return &SESTransport{client: client, from: from}
}

func (t *SESTransport) Name() string { return "ses" }

func (t *SESTransport) Send(ctx context.Context, msg Message) error {
	_, err := t.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.TextBody)},
				Html: &types.Content{Data: aws.String(msg.HTMLBody)},
			},
		},
		Source: aws.String(t.from),
	})
	if err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}
	return nil
}
