package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/config"
)

// SESMailer delivers email through AWS SES. Credentials are loaded from
// the standard AWS environment/config chain.
type SESMailer struct {
	client *sesv2.Client
	sender string
}

// NewSESMailer builds the SES client for the configured region. An
// empty sender address disables delivery; New returns the Nop sink in
// that case so callers never need to branch.
func NewSESMailer(cfg *config.SESConfig) (Sink, error) {
	if cfg.Sender == "" {
		log.Warn().Msg("SES sender not configured: email dispatch disabled")
		return Nop{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.Sender,
	}, nil
}

// Send dispatches one plain-text email to all recipients.
func (m *SESMailer) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination:      &types.Destination{ToAddresses: recipients},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}

	log.Debug().Int("recipients", len(recipients)).Str("subject", subject).Msg("email sent")
	return nil
}
